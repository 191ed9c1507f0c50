package render

import "strconv"

// Snippet is a code snippet card.
type Snippet struct {
	Index int
	Title string
	Note  string
	Code  string
	Lang  string
}

// NewSnippet reads a snippet from it.
func NewSnippet(index int, it Item) Snippet {
	return Snippet{
		Index: index,
		Title: it.String("title"),
		Note:  it.First("note", "description"),
		Code:  it.String("code"),
		Lang:  it.String("lang"),
	}
}

// Fragment renders the snippet card.
func (s Snippet) Fragment(opts Options) Fragment {
	id := anchorID(KindSnippet, s.Index, s.Title)
	lang := opts.codeLang()
	if !isBlank(s.Lang) {
		lang = s.Lang
	}

	var b Builder
	b.Open("div", A("class", "col-12 col-lg-6"), A("data-index", strconv.Itoa(s.Index)))
	b.Open("article", A("class", "project-card h-100"), A("id", id), A("aria-labelledby", id+"-title"))
	b.Open("div", A("class", "project-body"))
	b.Element("div", s.Title, A("class", "project-title"), A("id", id+"-title"))
	writeDescription(&b, s.Note, opts)
	if isBlank(s.Code) {
		writeInProgress(&b)
	} else {
		writeCopyButton(&b, s.Code)
	}
	writeCode(&b, s.Code, lang)
	b.Close("div")
	b.Close("article")
	b.Close("div")
	return b.Build()
}
