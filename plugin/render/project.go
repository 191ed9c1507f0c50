package render

import "strconv"

// Project is a portfolio project card.
type Project struct {
	Index    int
	Title    string
	Blurb    string
	Image    string
	Tags     []string
	Services []string
	Repo     string
	Readme   string
	Demo     string
	Diagram  string
}

// NewProject reads a project from it. The description is taken from "blurb",
// falling back to "description".
func NewProject(index int, it Item) Project {
	p := Project{
		Index:    index,
		Title:    it.String("title"),
		Blurb:    it.First("blurb", "description"),
		Tags:     it.Strings("tags"),
		Services: it.Strings("services"),
	}
	p.Image, _ = it.URL("image")
	p.Repo, _ = it.URL("repo")
	p.Readme, _ = it.URL("readme")
	p.Demo, _ = it.URL("demo")
	p.Diagram, _ = it.URL("diagram")
	return p
}

type linkAction struct {
	label string
	href  string
}

func (p Project) links() []linkAction {
	var out []linkAction
	if p.Repo != "" {
		out = append(out, linkAction{"Repo", p.Repo})
	}
	if p.Readme != "" {
		out = append(out, linkAction{"README", p.Readme})
	}
	if p.Demo != "" {
		out = append(out, linkAction{"Demo", p.Demo})
	}
	return out
}

// Anchor returns the element id of the card.
func (p Project) Anchor() string {
	return anchorID(KindProject, p.Index, p.Title)
}

// Link returns the primary destination of the project: the demo, then the
// repository, then the README.
func (p Project) Link() string {
	if p.Demo != "" {
		return p.Demo
	}
	if links := p.links(); len(links) > 0 {
		return links[0].href
	}
	return ""
}

// Fragment renders the project card.
func (p Project) Fragment(opts Options) Fragment {
	id := p.Anchor()

	var b Builder
	b.Open("div", A("class", "col-sm-12 col-md-6 col-lg-4 p-2"), A("data-index", strconv.Itoa(p.Index)))
	b.Open("article", A("class", "project-card w-100"), A("id", id), A("aria-labelledby", id+"-title"))
	if p.Image != "" {
		alt := "project image"
		if !isBlank(p.Title) {
			alt = p.Title + " project image"
		}
		b.Void("img", A("class", "project-img"), A("src", p.Image), A("alt", alt), A("loading", "lazy"))
	}

	b.Open("div", A("class", "project-body"))
	b.Element("div", p.Title, A("class", "project-title"), A("id", id+"-title"))
	writeDescription(&b, p.Blurb, opts)

	b.Open("div", A("class", "mb-3"))
	tags := p.Tags
	if len(tags) > opts.maxTags() {
		tags = tags[:opts.maxTags()]
	}
	for _, t := range tags {
		b.Element("span", t, A("class", "badge badge-soft rounded-pill me-1 mb-1"))
	}
	b.Close("div")

	pills := ServicePills(p.Services)
	if pills != "" {
		b.Open("div", A("class", "svc-row mb-3")).Fragment(pills).Close("div")
	}

	links := p.links()
	b.Open("div", A("class", "project-links d-flex gap-3 small"))
	for _, l := range links {
		b.Element("a", l.label, A("href", l.href), A("target", "_blank"), A("rel", "noreferrer"))
	}
	if p.Diagram != "" {
		b.Element("button", "Diagram",
			A("class", "btn btn-sm btn-card"),
			A("type", "button"),
			A("data-preview", p.Diagram),
			A("data-preview-title", p.Title),
		)
	}
	if len(links) == 0 && p.Diagram == "" && pills == "" {
		writeInProgress(&b)
	}
	b.Close("div")

	b.Close("div")
	b.Close("article")
	b.Close("div")
	return b.Build()
}
