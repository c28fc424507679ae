package collection

// FolderArena indexes a folder list by id. Parent links stay plain ids, so a
// malformed list with cycles or dangling parents never produces a live loop.
type FolderArena struct {
	folders []Folder
	byID    map[string]int
}

// NewFolderArena indexes folders. When ids repeat, the first folder wins.
func NewFolderArena(folders []Folder) *FolderArena {
	a := &FolderArena{
		folders: folders,
		byID:    make(map[string]int, len(folders)),
	}
	for i, f := range folders {
		if _, dup := a.byID[f.ID]; dup || f.ID == "" {
			continue
		}
		a.byID[f.ID] = i
	}
	return a
}

// Len returns the number of indexed folders.
func (a *FolderArena) Len() int {
	return len(a.byID)
}

// Get returns the folder with the given id.
func (a *FolderArena) Get(id string) (Folder, bool) {
	i, ok := a.byID[id]
	if !ok {
		return Folder{}, false
	}
	return a.folders[i], true
}

// Has reports whether id names a folder in the arena.
func (a *FolderArena) Has(id string) bool {
	_, ok := a.byID[id]
	return ok
}

// Resolve maps a request's folder reference to a valid folder id, or to the
// empty string (root) when the reference dangles.
func (a *FolderArena) Resolve(id string) string {
	if a.Has(id) {
		return id
	}
	return ""
}

// Parent returns the id of the folder's parent, or "" when the folder is top
// level or its parent does not exist.
func (a *FolderArena) Parent(id string) string {
	f, ok := a.Get(id)
	if !ok || f.ParentID == id {
		return ""
	}
	return a.Resolve(f.ParentID)
}

// Ancestors returns the chain from the top-level folder down to id itself.
// A cycle in parent links truncates the chain at the first repeated folder.
func (a *FolderArena) Ancestors(id string) []Folder {
	var chain []Folder
	seen := make(map[string]bool)
	for cur := a.Resolve(id); cur != "" && !seen[cur]; cur = a.Parent(cur) {
		seen[cur] = true
		f, _ := a.Get(cur)
		chain = append(chain, f)
	}
	for i, j := 0, len(chain)-1; i < j; i, j = i+1, j-1 {
		chain[i], chain[j] = chain[j], chain[i]
	}
	return chain
}

// Children returns the ids of folders whose parent is id, in list order.
// Pass "" for the top level.
func (a *FolderArena) Children(id string) []string {
	var out []string
	for i, f := range a.folders {
		if idx, ok := a.byID[f.ID]; !ok || idx != i {
			continue
		}
		if a.Parent(f.ID) == id && f.ID != id {
			out = append(out, f.ID)
		}
	}
	return out
}
