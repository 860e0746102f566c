package metadata

// Category and field names with special meaning to the store.
const (
	CategoryComment   = "Comment"
	CategoryExif      = "Exif"
	CategoryIptc      = "IPTC"
	CategoryXmpData   = "XMP Data"
	CategoryXmpPacket = "XMP Packet"

	FieldComment   = "Comment"
	FieldXmpPacket = "XMP Packet"
)

// Handle is a typed value owned by one of the section codecs. It renders to
// text and re-parses edited text in place.
type Handle interface {
	String() string
	Set(text string) error
}

// readOnlyHandle is implemented by handles whose value cannot be edited as text.
type readOnlyHandle interface {
	ReadOnly() bool
}

// invalidHandle is implemented by handles that can hold unparsed text.
type invalidHandle interface {
	Err() error
}

// FieldValue is either an owned string or a codec handle. The variant is
// fixed at construction.
type FieldValue struct {
	handle Handle
	text   string
}

// Text returns a FieldValue owning s.
func Text(s string) FieldValue {
	return FieldValue{text: s}
}

// Typed returns a FieldValue backed by h.
func Typed(h Handle) FieldValue {
	return FieldValue{handle: h}
}

// IsTyped reports whether the value is backed by a codec handle.
func (v FieldValue) IsTyped() bool {
	return v.handle != nil
}

func (v FieldValue) String() string {
	if v.handle != nil {
		return v.handle.String()
	}
	return v.text
}

// Field is a named value inside a category.
type Field struct {
	Name  string
	Value FieldValue
}

// NewField creates a field holding an owned string.
func NewField(name, text string) *Field {
	return &Field{Name: name, Value: Text(text)}
}

// Set replaces the field's value with text. For typed values the text is
// kept even when it fails to parse; the parse error is returned.
func (f *Field) Set(text string) error {
	if f.Value.handle != nil {
		return f.Value.handle.Set(text)
	}
	f.Value.text = text
	return nil
}

// Editable reports whether the value can be changed as text.
func (f *Field) Editable() bool {
	if ro, ok := f.Value.handle.(readOnlyHandle); ok {
		return !ro.ReadOnly()
	}
	return true
}

// Err returns the parse error left by the last edit, if any.
func (f *Field) Err() error {
	if h, ok := f.Value.handle.(invalidHandle); ok {
		return h.Err()
	}
	return nil
}

func (f *Field) String() string {
	return f.Value.String()
}

// Category is a named, ordered group of fields. Field names are unique within
// a category.
type Category struct {
	Name     string
	Expanded bool

	fields []*Field
	index  map[string]int
}

// NewCategory builds a category from fields, dropping later duplicates of a
// name.
func NewCategory(name string, fields ...*Field) *Category {
	c := &Category{Name: name, index: make(map[string]int, len(fields))}
	for _, f := range fields {
		c.add(f)
	}
	return c
}

func (c *Category) add(f *Field) bool {
	if _, exists := c.index[f.Name]; exists {
		return false
	}
	c.index[f.Name] = len(c.fields)
	c.fields = append(c.fields, f)
	return true
}

// Len returns the number of fields.
func (c *Category) Len() int {
	return len(c.fields)
}

// FieldAt returns the i-th field, or nil when out of range.
func (c *Category) FieldAt(i int) *Field {
	if i < 0 || i >= len(c.fields) {
		return nil
	}
	return c.fields[i]
}

// Field looks a field up by name.
func (c *Category) Field(name string) *Field {
	i, ok := c.index[name]
	if !ok {
		return nil
	}
	return c.fields[i]
}

// Index returns the position of the named field, or -1.
func (c *Category) Index(name string) int {
	i, ok := c.index[name]
	if !ok {
		return -1
	}
	return i
}

// Fields returns the fields in order.
func (c *Category) Fields() []*Field {
	out := make([]*Field, len(c.fields))
	copy(out, c.fields)
	return out
}
