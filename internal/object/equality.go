package object

// Equal implements the value-equality contract (spec §8, law "equality implies hash
// equality"): primitives compare by value, containers compare structurally, Unit is
// always equal to Unit, and anything else falls back to reference identity.
func Equal(a, b Object) (bool, *RuntimeError) {
	switch av := a.(type) {
	case *Unit:
		_, ok := b.(*Unit)
		return ok, nil
	case *Bool:
		bv, ok := b.(*Bool)
		return ok && av.Val == bv.Val, nil
	case *Int:
		bv, ok := b.(*Int)
		return ok && av.Val.Cmp(bv.Val) == 0, nil
	case *Float:
		bv, ok := b.(*Float)
		return ok && av.Val == bv.Val, nil
	case *Char:
		bv, ok := b.(*Char)
		return ok && av.Val == bv.Val, nil
	case *String:
		bv, ok := b.(*String)
		if !ok || len(av.Val) != len(bv.Val) {
			return false, nil
		}
		for i := range av.Val {
			if av.Val[i] != bv.Val[i] {
				return false, nil
			}
		}
		return true, nil
	case *Tuple:
		bv, ok := b.(*Tuple)
		if !ok || len(av.Contents) != len(bv.Contents) {
			return false, nil
		}
		for i := range av.Contents {
			eq, err := Equal(av.Contents[i], bv.Contents[i])
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	case *List:
		bv, ok := b.(*List)
		if !ok || len(av.Contents) != len(bv.Contents) {
			return false, nil
		}
		for i := range av.Contents {
			eq, err := Equal(av.Contents[i], bv.Contents[i])
			if err != nil {
				return false, err
			}
			if !eq {
				return false, nil
			}
		}
		return true, nil
	case *Set:
		bv, ok := b.(*Set)
		if !ok || av.Len() != bv.Len() {
			return false, nil
		}
		for _, bucket := range av.buckets {
			for _, e := range bucket {
				found, err := bv.Contains(e.val)
				if err != nil {
					return false, err
				}
				if !found {
					return false, nil
				}
			}
		}
		return true, nil
	case *Dictionary:
		bv, ok := b.(*Dictionary)
		if !ok || av.Len() != bv.Len() {
			return false, nil
		}
		for _, bucket := range av.buckets {
			for _, e := range bucket {
				other, err := bv.Get(e.key)
				if err != nil {
					if err.Kind == KeyError {
						return false, nil
					}
					return false, err
				}
				eq, err := Equal(e.val, other)
				if err != nil {
					return false, err
				}
				if !eq {
					return false, nil
				}
			}
		}
		return true, nil
	default:
		return a == b, nil
	}
}
