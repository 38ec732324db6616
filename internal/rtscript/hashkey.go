package rtscript

import (
	"fmt"

	"github.com/sunholo/embind/internal/abi"
)

// hashKey computes a canonical string key for hashable objects, used to
// back Dict/Set membership. Grounded on the teacher's approach of using
// map[string]*T registries (e.g. internal/builtins/registry.go's
// map[string]*BuiltinMeta) rather than a general-purpose hash table.
func hashKey(o *Object) (string, error) {
	switch o.kind {
	case KindNone:
		return "n:", nil
	case KindBool:
		return fmt.Sprintf("b:%v", o.b), nil
	case KindInt:
		return fmt.Sprintf("i:%d", o.i), nil
	case KindFloat:
		return fmt.Sprintf("f:%g", o.f), nil
	case KindStr:
		return "s:" + o.s, nil
	case KindTuple:
		key := "t:("
		for _, it := range o.items {
			sub, err := hashKey(it)
			if err != nil {
				return "", err
			}
			key += sub + ","
		}
		return key + ")", nil
	default:
		return "", fmt.Errorf("%s: unhashable type: '%s'", abi.ErrType, o.kind)
	}
}
