package network

// Stage 表示流式收发链路中的处理阶段。
//
// 主要用于在日志与监控中标记错误发生的位置，便于排查。
type Stage string

const (
	StageRecvRaw Stage = "recv_raw" // 从底层传输读到原始字节
	StageDecode  Stage = "decode"   // 缓冲区字节 -> 消息
	StageEncode  Stage = "encode"   // 消息 -> 缓冲区字节
	StageFlush   Stage = "flush"    // 发送缓冲区写入底层传输
)
