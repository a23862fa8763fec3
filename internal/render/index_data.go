package render

// IndexEntry is one file species listed in a directory index.
type IndexEntry struct {
	Name string `yaml:"name"`
	File string `yaml:"file"`
}

// IndexData is the root context for the directory index template.
type IndexData struct {
	Name        string
	Hierarchy   []string
	Directories []string
	Species     []IndexEntry
}

// Index renders a directory index as markdown and a self-contained HTML page.
func (r *Renderer) Index(data IndexData) (markdown, html []byte, err error) {
	markdown, err = r.execute("index.md.tmpl", data)
	if err != nil {
		return nil, nil, err
	}
	html, err = r.toHTML("Index: "+data.Name, markdown)
	if err != nil {
		return nil, nil, err
	}
	return markdown, html, nil
}
