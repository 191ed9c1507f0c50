package render

import "strconv"

// Lab is a hands-on exercise card.
type Lab struct {
	Index    int
	Title    string
	Goal     string
	RunPath  string
	Expected string
	Steps    []string
	Code     string
	Lang     string
}

// NewLab reads a lab from it.
func NewLab(index int, it Item) Lab {
	return Lab{
		Index:    index,
		Title:    it.String("title"),
		Goal:     it.First("goal", "description"),
		RunPath:  it.String("runPath"),
		Expected: it.String("expected"),
		Steps:    it.Strings("steps"),
		Code:     it.String("code"),
		Lang:     it.String("lang"),
	}
}

// Fragment renders the lab card.
func (l Lab) Fragment(opts Options) Fragment {
	id := anchorID(KindLab, l.Index, l.Title)
	lang := opts.codeLang()
	if !isBlank(l.Lang) {
		lang = l.Lang
	}

	var b Builder
	b.Open("div", A("class", "col-12"), A("data-index", strconv.Itoa(l.Index)))
	b.Open("article", A("class", "project-card h-100"), A("id", id), A("aria-labelledby", id+"-title"))
	b.Open("div", A("class", "project-body"))
	b.Element("div", l.Title, A("class", "project-title"), A("id", id+"-title"))
	writeDescription(&b, l.Goal, opts)

	b.Open("div", A("class", "small text-muted mb-3"))
	if !isBlank(l.RunPath) {
		b.Open("div").Element("strong", "Run:").Text(" " + l.RunPath).Close("div")
	}
	if !isBlank(l.Expected) {
		b.Open("div", A("class", "mt-1")).Element("strong", "Expect:").Text(" " + l.Expected).Close("div")
	}
	b.Close("div")

	if len(l.Steps) > 0 {
		b.Open("div", A("class", "mb-3"))
		b.Open("div", A("class", "small text-muted mb-1")).Element("strong", "Steps:").Close("div")
		b.Open("ul", A("class", "mb-0 ps-3"))
		for _, s := range l.Steps {
			b.Element("li", s)
		}
		b.Close("ul")
		b.Close("div")
	}

	if isBlank(l.Code) {
		writeInProgress(&b)
	} else {
		writeCopyButton(&b, l.Code)
	}
	writeCode(&b, l.Code, lang)
	b.Close("div")
	b.Close("article")
	b.Close("div")
	return b.Build()
}
