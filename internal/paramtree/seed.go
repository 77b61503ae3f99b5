package paramtree

import (
	"fmt"
	"os"

	rosmasterjson "github.com/nmxmxh/rosmaster/pkg/json"
)

// LoadSeed decodes a JSON document at path into a Value tree suitable for
// Set("/", ...) or Set(subtreeKey, ...). This is a one-way bootstrap input,
// never a persistence mechanism for the live tree (§1 Non-goals): the
// cache itself never writes back to path.
func LoadSeed(path string) (Value, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("paramtree: read seed %s: %w", path, err)
	}
	var decoded map[string]interface{}
	if err := rosmasterjson.Unmarshal(data, &decoded); err != nil {
		return nil, fmt.Errorf("paramtree: decode seed %s: %w", path, err)
	}
	return FromWire(decoded), nil
}
