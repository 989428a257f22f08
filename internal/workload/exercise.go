package workload

import (
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/klauspost/compress/zstd"

	"github.com/ajitpratap0/recycler/pkg/collections"
	stringpool "github.com/ajitpratap0/recycler/pkg/strings"
)

// Exercise does representative work with a rented instance so that recycle
// hooks have state to clean. Unknown types are left untouched.
func Exercise(v any, payload []byte) error {
	switch x := v.(type) {
	case *bytes.Buffer:
		x.Write(payload)
	case *strings.Builder:
		x.Write(payload)
	case *stringpool.Builder:
		_, _ = x.Write(payload)
	case *zstd.Encoder:
		_ = x.EncodeAll(payload, nil)
	case *zstd.Decoder:
		// decoders need a frame; nothing to feed them here
	case io.Writer:
		// gzip, deflate and lz4 writers; OnRecycle detaches them
		if _, err := x.Write(payload); err != nil {
			return err
		}
	case *[]byte:
		*x = append(*x, payload...)
	case *[]string:
		*x = append(*x, string(payload))
	case map[string]any:
		x[strconv.Itoa(len(x))] = len(payload)
	case chan []byte:
		select {
		case x <- payload:
		default:
		}
	case *collections.Set[string]:
		x.Add(string(payload))
	case *collections.List[any]:
		x.Append(len(payload))
	case *collections.Dict[string, any]:
		x.Put("payload", len(payload))
	}
	return nil
}
