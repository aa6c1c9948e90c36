package shell

import (
	"maps"
	"slices"
	"strings"
)

// Kind is the type of a tree node as shown by ls.
type Kind int

const (
	KindDirectory Kind = iota
	KindFile
	KindExecutable
)

func (k Kind) String() string {
	switch k {
	case KindDirectory:
		return "directory"
	case KindExecutable:
		return "executable"
	default:
		return "file"
	}
}

// Node is a directory or file in the virtual tree.
type Node struct {
	Kind     Kind
	Content  string
	Children map[string]*Node
}

// Dir returns a directory node. A nil map is replaced with an empty one.
func Dir(children map[string]*Node) *Node {
	if children == nil {
		children = make(map[string]*Node)
	}
	return &Node{Kind: KindDirectory, Children: children}
}

// File returns a regular file node.
func File(content string) *Node {
	return &Node{Kind: KindFile, Content: content}
}

// Executable returns an executable file node.
func Executable() *Node {
	return &Node{Kind: KindExecutable}
}

// IsDir reports whether n is a directory.
func (n *Node) IsDir() bool {
	return n != nil && n.Kind == KindDirectory
}

// Entry is one row of a directory listing.
type Entry struct {
	Name string
	Kind Kind
}

// entries lists the children of a directory sorted by name.
func (n *Node) entries() []Entry {
	names := slices.Sorted(maps.Keys(n.Children))
	out := make([]Entry, len(names))
	for i, name := range names {
		out[i] = Entry{Name: name, Kind: n.Children[name].Kind}
	}
	return out
}

// lookup walks an absolute, normalized path.
func (n *Node) lookup(abs string) *Node {
	cur := n
	for _, part := range strings.Split(strings.TrimPrefix(abs, "/"), "/") {
		if part == "" {
			continue
		}
		if !cur.IsDir() {
			return nil
		}
		next, ok := cur.Children[part]
		if !ok {
			return nil
		}
		cur = next
	}
	return cur
}

// mkdirAll returns the directory at abs, creating missing directories.
func (n *Node) mkdirAll(abs string) *Node {
	cur := n
	for _, part := range strings.Split(strings.TrimPrefix(abs, "/"), "/") {
		if part == "" {
			continue
		}
		next, ok := cur.Children[part]
		if !ok || !next.IsDir() {
			next = Dir(nil)
			cur.Children[part] = next
		}
		cur = next
	}
	return cur
}

// DefaultTree builds the tree every terminal starts with: the user's home
// with Desktop, projects and documents, and /bin holding one executable per
// command.
func DefaultTree(user, home string, commands []string) *Node {
	root := Dir(nil)
	h := root.mkdirAll(home)
	h.Children["Desktop"] = Dir(map[string]*Node{
		"resume.pdf":      File("[PDF Content]"),
		"commands.pdf":    File("[PDF Content]"),
		"korze.org.url":   File("https://korze.org"),
		"Leviathan.url":   File("https://leviathan.korze.org"),
		"better.game.url": File("https://korzewarrior.github.io/better.game/"),
	})
	h.Children["projects"] = Dir(map[string]*Node{
		"website.html": File("[Project Content]"),
	})
	h.Children["documents"] = Dir(map[string]*Node{
		"notes.txt": File("My notes."),
	})
	h.Children["about.txt"] = File("User: " + user + " (simulated)")

	bin := root.mkdirAll("/bin")
	for _, name := range commands {
		bin.Children[name] = Executable()
	}
	return root
}
