// value.go implements §3's "Runtime value": a tagged variant carrying one
// of the VM's primitive or heap-referencing kinds. Value itself has no
// refcount field: an Object value holds a pool handle, and the refcount
// lives on the pooled object (object.go).

package vm

import "fmt"

type ValueKind int

const (
	Null ValueKind = iota
	Int
	Float
	Bool
	String
	List
	File
	Object
)

func (k ValueKind) String() string {
	switch k {
	case Null:
		return "Null"
	case Int:
		return "Int"
	case Float:
		return "Float"
	case Bool:
		return "Bool"
	case String:
		return "String"
	case List:
		return "List"
	case File:
		return "File"
	case Object:
		return "Object"
	default:
		return "Unknown"
	}
}

// Value is the tagged union §3 describes. Only one of the payload fields
// is meaningful at a time, selected by Kind.
type Value struct {
	Kind      ValueKind
	IntVal    int64
	FloatVal  float64
	BoolVal   bool
	StringVal string
	ListVal   []Value
	FileVal   any
	Handle    int32 // Object pool index, meaningful when Kind == Object
}

func NullValue() Value               { return Value{Kind: Null} }
func IntValue(v int64) Value         { return Value{Kind: Int, IntVal: v} }
func FloatValue(v float64) Value     { return Value{Kind: Float, FloatVal: v} }
func BoolValue(v bool) Value         { return Value{Kind: Bool, BoolVal: v} }
func StringValue(v string) Value     { return Value{Kind: String, StringVal: v} }
func ObjectValue(handle int32) Value { return Value{Kind: Object, Handle: handle} }

// AsKey renders the value the way §4.4's "Int formatted to decimal
// string" property-key rule requires; SETPROP and GETPROP use it to turn
// a key register into a property name.
func (v Value) AsKey() string {
	switch v.Kind {
	case Int:
		return fmt.Sprintf("%d", v.IntVal)
	case String:
		return v.StringVal
	default:
		return fmt.Sprintf("%v", v)
	}
}

func (v Value) String() string {
	switch v.Kind {
	case Null:
		return "null"
	case Int:
		return fmt.Sprintf("%d", v.IntVal)
	case Float:
		return fmt.Sprintf("%g", v.FloatVal)
	case Bool:
		return fmt.Sprintf("%t", v.BoolVal)
	case String:
		return v.StringVal
	case List:
		return fmt.Sprintf("List(%d)", len(v.ListVal))
	case File:
		return "File(...)"
	case Object:
		return fmt.Sprintf("Object(#%d)", v.Handle)
	default:
		return "?"
	}
}
