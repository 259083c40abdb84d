package programv1connect

import (
	"encoding/json"

	"connectrpc.com/connect"
)

// jsonCodecName replaces Connect's default protojson codec, so clients keep
// sending application/json and application/connect+json.
const jsonCodecName = "json"

type jsonCodec struct{}

var _ connect.Codec = jsonCodec{}

func (jsonCodec) Name() string { return jsonCodecName }

func (jsonCodec) Marshal(msg any) ([]byte, error) {
	return json.Marshal(msg)
}

func (jsonCodec) Unmarshal(data []byte, msg any) error {
	if len(data) == 0 {
		return nil
	}
	return json.Unmarshal(data, msg)
}
