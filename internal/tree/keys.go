package tree

import "github.com/RoaringBitmap/roaring"

func (t *Tree) indexKey(key string, f *File) {
	bm, ok := t.keys[key]
	if !ok {
		bm = roaring.New()
		t.keys[key] = bm
	}
	bm.Add(f.id)
}

// FilesWithKey returns the rc-files that hold at least one setting named key,
// in creation order.
func (t *Tree) FilesWithKey(key string) []*File {
	bm, ok := t.keys[key]
	if !ok {
		return nil
	}
	files := make([]*File, 0, bm.GetCardinality())
	it := bm.Iterator()
	for it.HasNext() {
		id := it.Next()
		if int(id) < len(t.files) {
			files = append(files, t.files[id])
		}
	}
	return files
}

// KeyBitmap returns a copy of the file-id bitmap for key, or nil.
func (t *Tree) KeyBitmap(key string) *roaring.Bitmap {
	bm, ok := t.keys[key]
	if !ok {
		return nil
	}
	return bm.Clone()
}

// FileID returns the dense ordinal the key index uses for f.
func (f *File) FileID() uint32 { return f.id }
