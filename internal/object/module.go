package object

import (
	"github.com/sunholo/embind/internal/abi"
	"github.com/sunholo/embind/internal/convert"
)

// Module exposes name(), dict(), and add(name, obj). import_(name) and
// module_(name) are free functions rather than methods since the former
// doesn't require an existing Module and the latter constructs one.
type Module struct{ Object }

// Import_ imports a module by name.
func Import_(rt abi.Runtime, name string) (Module, error) {
	v, err := rt.Import(name)
	if err != nil {
		return Module{}, runtimeErr(rt, err)
	}
	return Module{Steal(rt, v)}, nil
}

// Module_ creates a new native-backed module and registers it with the
// runtime so Import_ can find it again by name. The module-definition
// record's required static lifetime is simply the Go value rt holds
// onto once registered.
func Module_(rt abi.Runtime, name string) Module {
	m := Steal(rt, rt.NewModule(name))
	rt.RegisterModule(name, m.ref())
	return Module{m}
}

func (m Module) Name() (string, error) {
	a, err := m.GetAttr("__name__")
	if err != nil {
		return "", err
	}
	return convert.ExtractStr(m.rt(), a.ref())
}

// Dict returns the module's attribute namespace as a Dict-shaped Mapping
// façade over its own attribute store, via the generic attribute surface
// (rtscript models module namespaces as attrs, not a first-class dict).
func (m Module) Dict() Mapping { return Mapping{m.Object} }

// Add installs obj under name in the module's namespace.
func (m Module) Add(name string, obj Object) error { return m.SetAttr(name, obj) }

func (m *Module) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	to := rt.TypeOf(obj)
	if rt.TypeName(to) != "module" {
		return convert.NewExtractError(rt, "module", obj)
	}
	m.Object = Borrow(rt, obj)
	return nil
}

// Type is the façade over a runtime type object, produced by heap-type
// registration (C8) or Object.Type().
type Type struct{ Object }

func (t *Type) FromRuntime(rt abi.Runtime, obj abi.Ref) error {
	to := rt.TypeOf(obj)
	if rt.TypeName(to) != "type" {
		return convert.NewExtractError(rt, "type", obj)
	}
	t.Object = Borrow(rt, obj)
	return nil
}
