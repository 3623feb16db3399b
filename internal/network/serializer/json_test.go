package serializer

import (
	"testing"

	"github.com/stretchr/testify/suite"
	"google.golang.org/protobuf/types/known/wrapperspb"

	"github.com/lk2023060901/streamframe-go/pkg/util/merr"
)

type CodecFormatSuite struct {
	suite.Suite
}

func (s *CodecFormatSuite) TestJSONRoundTrip() {
	ser := JSONSerializer{}
	in := map[string]any{"op": "ping", "seq": float64(3)}

	data, err := ser.Marshal(in)
	s.NoError(err)

	var out map[string]any
	s.NoError(ser.Unmarshal(data, &out))
	s.Equal(in, out)
}

func (s *CodecFormatSuite) TestJSONMalformed() {
	ser := JSONSerializer{}
	var out map[string]any
	s.ErrorIs(ser.Unmarshal([]byte(`{"op":`), &out), merr.ErrDeserializeFailed)
}

func (s *CodecFormatSuite) TestProtoRoundTrip() {
	ser := ProtoSerializer{}
	in := wrapperspb.String("streamframe")

	data, err := ser.Marshal(in)
	s.NoError(err)

	out := &wrapperspb.StringValue{}
	s.NoError(ser.Unmarshal(data, out))
	s.Equal(in.GetValue(), out.GetValue())
}

func (s *CodecFormatSuite) TestProtoRequiresMessage() {
	ser := ProtoSerializer{}
	_, err := ser.Marshal("not a proto message")
	s.ErrorIs(err, merr.ErrTypeUnsupported)

	var out string
	s.ErrorIs(ser.Unmarshal([]byte{}, &out), merr.ErrTypeUnsupported)
}

func TestCodecFormats(t *testing.T) {
	suite.Run(t, new(CodecFormatSuite))
}
