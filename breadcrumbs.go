package recinject

import "strings"

// Crumb is one segment of the hero's breadcrumb trail.
type Crumb struct {
	Label string
	Href  string
}

var sectionCrumbs = map[Section]Crumb{
	SectionHome:     {Label: "Início", Href: "index.html"},
	SectionAbout:    {Label: "Quem Somos", Href: "quem-somos.html"},
	SectionProducts: {Label: "Produtos e Serviços", Href: "produtos-servicos.html"},
	SectionContact:  {Label: "Contato", Href: "contato.html"},
}

const crumbSeparator = " / "

// Breadcrumbs returns the trail for a page in section s. The home entry
// always comes first; any other known section adds its own entry after it.
// Empty and unknown sections get the home trail.
func Breadcrumbs(s Section) []Crumb {
	home := sectionCrumbs[SectionHome]
	current, ok := sectionCrumbs[s]
	if !ok || s == SectionHome {
		return []Crumb{home}
	}
	return []Crumb{home, current}
}

// BreadcrumbText renders the trail for s as plain text, such as
// "Início / Contato".
func BreadcrumbText(s Section) string {
	crumbs := Breadcrumbs(s)
	labels := make([]string, 0, len(crumbs))
	for _, c := range crumbs {
		labels = append(labels, c.Label)
	}
	return strings.Join(labels, crumbSeparator)
}
