// Package fspath is similar to the standard path package but provides functions
// that are more useful for deciding whether a slash separated path requested
// by a client stays inside the directory it is resolved against.
package fspath

// Contained reports whether the path never walks above its starting point.
// A single ".." that escapes is enough to make the function return false,
// even if later elements walk back down into the tree.
func Contained(path string) bool {
	depth := 0
	for {
		var elem string
		elem, path = Walk(TrimLeadingSlash(path))
		switch elem {
		case "":
			return true
		case ".":
		case "..":
			if depth--; depth < 0 {
				return false
			}
		default:
			depth++
		}
	}
}

// IndexSlash is like strings.IndexByte(path, '/') but simple enough to be
// inlined.
func IndexSlash(path string) int {
	for i := 0; i < len(path); i++ {
		if path[i] == '/' {
			return i
		}
	}
	return -1
}

// Walk separates the next path element from the rest of the path.
func Walk(path string) (elem, name string) {
	i := IndexSlash(path)
	if i < 0 {
		return path, ""
	}
	if i == 0 {
		i = 1
	}
	return path[:i], TrimLeadingSlash(path[i:])
}

func TrimLeadingSlash(s string) string {
	i := 0
	for i < len(s) && s[i] == '/' {
		i++
	}
	return s[i:]
}
