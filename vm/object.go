// object.go implements §3's "Object" and §4.4's "Object lifecycle":
// parallel keys/values arrays with insertion-order lookup, a refcount,
// and doubling growth. Objects live in the VM's pool, indexed by handle;
// there is no cycle collector (§4.4 design note).

package vm

const initialPropertyCapacity = 4

type object struct {
	keys     []string
	values   []Value
	refcount int32
	live     bool
}

func newObject() *object {
	return &object{
		keys:     make([]string, 0, initialPropertyCapacity),
		values:   make([]Value, 0, initialPropertyCapacity),
		refcount: 1,
		live:     true,
	}
}

// setProperty replaces an existing key's value or appends a new
// (key, value) pair, per §4.4 "set_property replaces an existing key or
// appends".
func (o *object) setProperty(key string, value Value) {
	for i, k := range o.keys {
		if k == key {
			o.values[i] = value
			return
		}
	}
	o.keys = append(o.keys, key)
	o.values = append(o.values, value)
}

// getProperty returns Null on a miss, per §4.4's GETPROP rule.
func (o *object) getProperty(key string) Value {
	for i, k := range o.keys {
		if k == key {
			return o.values[i]
		}
	}
	return NullValue()
}

func (o *object) retain() {
	o.refcount++
}

// release decrements refcount and, on reaching zero, clears the
// object's storage. The pool slot itself is reclaimed by the VM that
// owns it (§4.4 "removes from the pool, frees all property keys and
// their value array, and frees the object").
func (o *object) release() bool {
	o.refcount--
	if o.refcount <= 0 {
		o.keys = nil
		o.values = nil
		o.live = false
		return true
	}
	return false
}

// objectPool is the VM's "dynamic array of object pointers" (§4.4
// "Architecture").
type objectPool struct {
	objects []*object
}

func newObjectPool() *objectPool {
	return &objectPool{}
}

// allocate appends a freshly constructed object (refcount 1) and
// returns its handle.
func (p *objectPool) allocate() int32 {
	obj := newObject()
	p.objects = append(p.objects, obj)
	return int32(len(p.objects) - 1)
}

func (p *objectPool) get(handle int32) (*object, bool) {
	if handle < 0 || int(handle) >= len(p.objects) {
		return nil, false
	}
	obj := p.objects[handle]
	if obj == nil || !obj.live {
		return nil, false
	}
	return obj, true
}

// release drops a reference on handle, freeing the slot in place when
// the refcount reaches zero.
func (p *objectPool) release(handle int32) {
	obj, ok := p.get(handle)
	if !ok {
		return
	}
	if obj.release() {
		p.objects[handle] = nil
	}
}
