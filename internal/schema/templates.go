package schema

import "strings"

// Pattern names a schema template.
type Pattern string

const (
	PatternECommerce Pattern = "e-commerce"
	PatternBlog      Pattern = "blog"
	PatternCRM       Pattern = "crm"
	PatternSocial    Pattern = "social-media"
)

// Patterns lists the templates in detection order.
var Patterns = []Pattern{PatternECommerce, PatternBlog, PatternCRM, PatternSocial}

type link struct {
	from, to string
	kind     RelationshipType
}

// Template is an entity and relationship blueprint.
type Template struct {
	Entities []string
	links    []link
}

var templates = map[Pattern]Template{
	PatternECommerce: {
		Entities: []string{"User", "Product", "Category", "Order", "OrderItem", "Payment", "Address", "Review"},
		links: []link{
			{"User", "Order", OneToMany},
			{"Order", "OrderItem", OneToMany},
			{"Product", "OrderItem", OneToMany},
			{"Category", "Product", OneToMany},
			{"User", "Address", OneToMany},
			{"User", "Review", OneToMany},
			{"Product", "Review", OneToMany},
			{"Order", "Payment", OneToOne},
		},
	},
	PatternBlog: {
		Entities: []string{"User", "Post", "Category", "Tag", "Comment", "Media"},
		links: []link{
			{"User", "Post", OneToMany},
			{"Post", "Comment", OneToMany},
			{"User", "Comment", OneToMany},
			{"Category", "Post", OneToMany},
			{"Post", "Tag", ManyToMany},
			{"Post", "Media", OneToMany},
		},
	},
	PatternCRM: {
		Entities: []string{"Contact", "Company", "Deal", "Activity", "Task", "Note", "User", "Pipeline"},
		links: []link{
			{"Company", "Contact", OneToMany},
			{"Contact", "Deal", OneToMany},
			{"User", "Deal", OneToMany},
			{"Deal", "Activity", OneToMany},
			{"Contact", "Task", OneToMany},
			{"Contact", "Note", OneToMany},
			{"Pipeline", "Deal", OneToMany},
		},
	},
	PatternSocial: {
		Entities: []string{"User", "Post", "Comment", "Like", "Follow", "Message", "Group", "Event"},
		links: []link{
			{"User", "Post", OneToMany},
			{"Post", "Comment", OneToMany},
			{"User", "Comment", OneToMany},
			{"User", "Like", OneToMany},
			{"Post", "Like", OneToMany},
			{"User", "Follow", OneToMany},
			{"User", "Message", OneToMany},
			{"User", "Group", ManyToMany},
		},
	},
}

var patternKeywords = []struct {
	pattern  Pattern
	keywords []string
}{
	{PatternECommerce, []string{"ecommerce", "shop", "store"}},
	{PatternBlog, []string{"blog", "cms", "content"}},
	{PatternCRM, []string{"crm", "customer", "sales"}},
	{PatternSocial, []string{"social", "community", "network"}},
}

// DetectPattern maps a use-case label to a template by substring match.
// Labels matching nothing get the e-commerce template.
func DetectPattern(label string) Pattern {
	lower := strings.ToLower(label)
	for _, pk := range patternKeywords {
		for _, kw := range pk.keywords {
			if strings.Contains(lower, kw) {
				return pk.pattern
			}
		}
	}
	return PatternECommerce
}

// TemplateFor returns the blueprint of p.
func TemplateFor(p Pattern) (Template, bool) {
	t, ok := templates[p]
	return t, ok
}
