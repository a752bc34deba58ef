package sysapi

import (
	"github.com/cwbudde/scriptlang/internal/bridge"
	"github.com/cwbudde/scriptlang/internal/diag"
	"github.com/cwbudde/scriptlang/internal/runtime"
	"github.com/cwbudde/scriptlang/internal/token"
)

// arrayList is the Native payload for an ArrayList instance: a growable
// sequence, the mutable counterpart to the language's fixed-length array.
type arrayList struct {
	elems []runtime.Value
}

func asArrayList(receiver runtime.Value, pos token.Position) (*arrayList, error) {
	obj, ok := receiver.(*runtime.SysObjectValue)
	if !ok {
		return nil, diag.Systemf(pos, "ArrayList method called without an ArrayList receiver")
	}
	al, ok := obj.Native.(*arrayList)
	if !ok {
		return nil, diag.Systemf(pos, "ArrayList instance missing its native storage")
	}
	return al, nil
}

func buildArrayListClass() *bridge.ClassBuilder {
	return bridge.NewClass("ArrayList").
		Constructor(0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			receiver.(*runtime.SysObjectValue).Native = &arrayList{}
			return nil, nil, nil
		}).
		Method("add", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			al, err := asArrayList(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			al.elems = append(al.elems, args[0])
			return receiver, nil, nil
		}).
		Method("get", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			al, err := asArrayList(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			idx, err := args[0].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			if idx < 0 || idx >= int64(len(al.elems)) {
				return nil, nil, diag.Runtimef(pos, "ArrayList.get: index %d out of range for length %d", idx, len(al.elems))
			}
			return al.elems[idx], nil, nil
		}).
		Method("set", 2, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			al, err := asArrayList(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			idx, err := args[0].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			if idx < 0 || idx >= int64(len(al.elems)) {
				return nil, nil, diag.Runtimef(pos, "ArrayList.set: index %d out of range for length %d", idx, len(al.elems))
			}
			al.elems[idx] = args[1]
			return receiver, nil, nil
		}).
		Method("remove_at", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			al, err := asArrayList(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			idx, err := args[0].GetInteger()
			if err != nil {
				return nil, nil, err
			}
			if idx < 0 || idx >= int64(len(al.elems)) {
				return nil, nil, diag.Runtimef(pos, "ArrayList.remove_at: index %d out of range for length %d", idx, len(al.elems))
			}
			al.elems = append(al.elems[:idx], al.elems[idx+1:]...)
			return receiver, nil, nil
		}).
		Method("length", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			al, err := asArrayList(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewInteger(int64(len(al.elems))), nil, nil
		}).
		Method("to_array", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			al, err := asArrayList(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			out := make([]runtime.Value, len(al.elems))
			copy(out, al.elems)
			return runtime.NewArrayFromLiteral(out), nil, nil
		})
}

// hashEntry is one bucket slot in hashSet/hashMap's linear-probe-free,
// equality-by-ValueEquals lookup — script values have no Go-comparable
// identity in general (an object or array hashes by pointer, but
// ValueEquals for an object/array is identity too, so a linear scan
// bucketed by ValueHashCode is the simplest correct representation
// without reimplementing the language's own equality rules).
type hashEntry struct {
	key   runtime.Value
	value runtime.Value
}

// hashSet is the Native payload for a HashSet instance.
type hashSet struct {
	buckets map[uint64][]runtime.Value
}

func newHashSet() *hashSet { return &hashSet{buckets: make(map[uint64][]runtime.Value)} }

func (s *hashSet) contains(v runtime.Value) (bool, error) {
	h, err := v.ValueHashCode()
	if err != nil {
		return false, err
	}
	for _, existing := range s.buckets[h] {
		eq, err := existing.ValueEquals(v)
		if err != nil {
			return false, err
		}
		if eq {
			return true, nil
		}
	}
	return false, nil
}

func (s *hashSet) add(v runtime.Value) error {
	ok, err := s.contains(v)
	if err != nil || ok {
		return err
	}
	h, err := v.ValueHashCode()
	if err != nil {
		return err
	}
	s.buckets[h] = append(s.buckets[h], v)
	return nil
}

func (s *hashSet) remove(v runtime.Value) error {
	h, err := v.ValueHashCode()
	if err != nil {
		return err
	}
	bucket := s.buckets[h]
	for i, existing := range bucket {
		eq, err := existing.ValueEquals(v)
		if err != nil {
			return err
		}
		if eq {
			s.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			return nil
		}
	}
	return nil
}

func (s *hashSet) size() int {
	n := 0
	for _, bucket := range s.buckets {
		n += len(bucket)
	}
	return n
}

func asHashSet(receiver runtime.Value, pos token.Position) (*hashSet, error) {
	obj, ok := receiver.(*runtime.SysObjectValue)
	if !ok {
		return nil, diag.Systemf(pos, "HashSet method called without a HashSet receiver")
	}
	hs, ok := obj.Native.(*hashSet)
	if !ok {
		return nil, diag.Systemf(pos, "HashSet instance missing its native storage")
	}
	return hs, nil
}

func buildHashSetClass() *bridge.ClassBuilder {
	return bridge.NewClass("HashSet").
		Constructor(0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			receiver.(*runtime.SysObjectValue).Native = newHashSet()
			return nil, nil, nil
		}).
		Method("add", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			hs, err := asHashSet(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			if err := hs.add(args[0]); err != nil {
				return nil, nil, err
			}
			return receiver, nil, nil
		}).
		Method("contains", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			hs, err := asHashSet(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			ok, err := hs.contains(args[0])
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewBoolean(ok), nil, nil
		}).
		Method("remove", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			hs, err := asHashSet(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			if err := hs.remove(args[0]); err != nil {
				return nil, nil, err
			}
			return receiver, nil, nil
		}).
		Method("size", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			hs, err := asHashSet(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewInteger(int64(hs.size())), nil, nil
		})
}

// hashMap is the Native payload for a HashMap instance, keyed the same
// ValueHashCode/ValueEquals way as hashSet.
type hashMap struct {
	buckets map[uint64][]hashEntry
}

func newHashMap() *hashMap { return &hashMap{buckets: make(map[uint64][]hashEntry)} }

func (m *hashMap) find(key runtime.Value) (*hashEntry, uint64, error) {
	h, err := key.ValueHashCode()
	if err != nil {
		return nil, 0, err
	}
	for i := range m.buckets[h] {
		eq, err := m.buckets[h][i].key.ValueEquals(key)
		if err != nil {
			return nil, 0, err
		}
		if eq {
			return &m.buckets[h][i], h, nil
		}
	}
	return nil, h, nil
}

func (m *hashMap) put(key, value runtime.Value) error {
	entry, h, err := m.find(key)
	if err != nil {
		return err
	}
	if entry != nil {
		entry.value = value
		return nil
	}
	m.buckets[h] = append(m.buckets[h], hashEntry{key: key, value: value})
	return nil
}

func (m *hashMap) get(key runtime.Value) (runtime.Value, bool, error) {
	entry, _, err := m.find(key)
	if err != nil || entry == nil {
		return nil, false, err
	}
	return entry.value, true, nil
}

func (m *hashMap) remove(key runtime.Value) error {
	h, err := key.ValueHashCode()
	if err != nil {
		return err
	}
	bucket := m.buckets[h]
	for i := range bucket {
		eq, err := bucket[i].key.ValueEquals(key)
		if err != nil {
			return err
		}
		if eq {
			m.buckets[h] = append(bucket[:i], bucket[i+1:]...)
			return nil
		}
	}
	return nil
}

func (m *hashMap) size() int {
	n := 0
	for _, bucket := range m.buckets {
		n += len(bucket)
	}
	return n
}

func asHashMap(receiver runtime.Value, pos token.Position) (*hashMap, error) {
	obj, ok := receiver.(*runtime.SysObjectValue)
	if !ok {
		return nil, diag.Systemf(pos, "HashMap method called without a HashMap receiver")
	}
	hm, ok := obj.Native.(*hashMap)
	if !ok {
		return nil, diag.Systemf(pos, "HashMap instance missing its native storage")
	}
	return hm, nil
}

func buildHashMapClass() *bridge.ClassBuilder {
	return bridge.NewClass("HashMap").
		Constructor(0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			receiver.(*runtime.SysObjectValue).Native = newHashMap()
			return nil, nil, nil
		}).
		Method("put", 2, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			hm, err := asHashMap(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			if err := hm.put(args[0], args[1]); err != nil {
				return nil, nil, err
			}
			return receiver, nil, nil
		}).
		Method("get", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			hm, err := asHashMap(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			v, ok, err := hm.get(args[0])
			if err != nil {
				return nil, nil, err
			}
			if !ok {
				return runtime.Null, nil, nil
			}
			return v, nil, nil
		}).
		Method("contains_key", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			hm, err := asHashMap(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			_, ok, err := hm.get(args[0])
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewBoolean(ok), nil, nil
		}).
		Method("remove", 1, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			hm, err := asHashMap(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			if err := hm.remove(args[0]); err != nil {
				return nil, nil, err
			}
			return receiver, nil, nil
		}).
		Method("size", 0, func(_ runtime.Invoker, receiver runtime.Value, args []runtime.Value, pos token.Position) (runtime.Value, *runtime.ExceptionValue, error) {
			hm, err := asHashMap(receiver, pos)
			if err != nil {
				return nil, nil, err
			}
			return runtime.NewInteger(int64(hm.size())), nil, nil
		})
}
