package archive

import (
	"bytes"

	"clicktrack/internal/model"

	json "github.com/goccy/go-json"
	"github.com/klauspost/compress/gzip"
)

// EncodeJSONLGZ encodes events one JSON object per line and gzips the
// result. The returned slice is owned by the caller.
func EncodeJSONLGZ(events []model.Event) ([]byte, error) {
	buf := BufferPool.Get().(*bytes.Buffer)
	buf.Reset()
	defer PutBuffer(buf)

	gz := GzipPool.Get().(*gzip.Writer)
	gz.Reset(buf)
	defer GzipPool.Put(gz)

	enc := json.NewEncoder(gz)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			_ = gz.Close()
			return nil, err
		}
	}
	if err := gz.Close(); err != nil {
		return nil, err
	}

	// the pooled buffer is reused, so hand out a copy
	raw := buf.Bytes()
	data := make([]byte, len(raw))
	copy(data, raw)
	return data, nil
}

// DecodeJSONLGZ is the inverse of EncodeJSONLGZ.
func DecodeJSONLGZ(data []byte) ([]model.Event, error) {
	gz, err := gzip.NewReader(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	defer gz.Close()

	var out []model.Event
	dec := json.NewDecoder(gz)
	for dec.More() {
		var ev model.Event
		if err := dec.Decode(&ev); err != nil {
			return nil, err
		}
		out = append(out, ev)
	}
	return out, nil
}
