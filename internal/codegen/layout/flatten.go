package layout

// flatten copies every base class's members into its subclasses, walking
// the chain so multi-level hierarchies are fully expanded. Base classes keep
// their own declaration. A subclass member with the same name as a base
// member replaces it in place.
func (r *Renderer) flatten() {
	done := make(map[string]bool)
	for _, d := range r.decls {
		if c, ok := d.(*Class); ok {
			r.flattenClass(c, done, make(map[string]bool))
		}
	}
}

func (r *Renderer) flattenClass(c *Class, done, visiting map[string]bool) {
	if done[c.Name] {
		return
	}
	if c.Base == "" {
		done[c.Name] = true
		return
	}
	if visiting[c.Name] {
		r.logger.Debug("Inheritance cycle", "class", c.Name, "base", c.Base)
		return
	}
	visiting[c.Name] = true

	base, ok := r.classes[c.Base]
	if !ok {
		r.logger.Debug("Unresolved base class", "class", c.Name, "base", c.Base)
		done[c.Name] = true
		return
	}
	r.flattenClass(base, done, visiting)

	c.Fields = mergeFields(base.Fields, c.Fields)
	c.Methods = mergeFields(base.Methods, c.Methods)
	c.Defaults |= base.Defaults
	c.Find = c.Find || base.Find
	r.stats.Flattened++
	done[c.Name] = true
}

func mergeFields(base, own []Field) []Field {
	if len(base) == 0 {
		return own
	}
	byName := make(map[string]int, len(own))
	for i, f := range own {
		byName[f.Name] = i
	}
	used := make([]bool, len(own))
	out := make([]Field, 0, len(base)+len(own))
	for _, f := range base {
		if i, ok := byName[f.Name]; ok {
			out = append(out, own[i])
			used[i] = true
			continue
		}
		out = append(out, f)
	}
	for i, f := range own {
		if !used[i] {
			out = append(out, f)
		}
	}
	return out
}
