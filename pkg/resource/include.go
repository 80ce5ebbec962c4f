package resource

import "strings"

// includePathSeparator separates relation names in a nested include path
const includePathSeparator = "."

// IncludeResult is the outcome of resolving include paths
type IncludeResult struct {
	// Resources are in path order and not yet deduplicated
	Resources []*Resource
	// Skipped lists paths naming a relation the descriptors do not declare
	Skipped []string
}

// Included resolves include paths against the resource's relations
func (r *Resource) Included(paths ...string) IncludeResult {
	return resolveIncludes(r.Node(), paths)
}

// Included resolves include paths against every item of the sequence
func (s *Sequence) Included(paths ...string) IncludeResult {
	return resolveIncludes(s.Node(), paths)
}

func resolveIncludes(root Node, paths []string) IncludeResult {
	var result IncludeResult

	for _, path := range paths {
		if path == "" {
			continue
		}
		node, ok := walkPath(root, strings.Split(path, includePathSeparator))
		if !ok {
			result.Skipped = append(result.Skipped, path)
			continue
		}
		result.Resources = append(result.Resources, node.Resources()...)
	}

	return result
}

// walkPath follows segments one relation at a time. A sequence step
// applies the next segment to each item and merges all results into a
// single sequence, whether the items yield one resource or many. After a
// null step the remaining segments are still checked against the
// descriptors.
func walkPath(current Node, segments []string) (Node, bool) {
	var desc *Descriptor
	for _, segment := range segments {
		switch current.Kind() {
		case KindNull:
			if desc == nil {
				return current, true
			}
			target, ok := desc.Target(segment)
			if !ok {
				return Null(), false
			}
			desc = target

		case KindOne:
			res := current.Resource()
			target, ok := res.Descriptor().Target(segment)
			if !ok {
				return Null(), false
			}
			current, _ = res.Related(segment)
			desc = target

		case KindMany:
			seq := current.Sequence()
			target, ok := seq.Descriptor().Target(segment)
			if !ok {
				return Null(), false
			}

			var merged []*Resource
			for _, item := range seq.Items() {
				next, _ := item.Related(segment)
				merged = append(merged, next.Resources()...)
			}
			current = sequenceOf(target, merged).Node()
			desc = target
		}
	}

	return current, true
}
