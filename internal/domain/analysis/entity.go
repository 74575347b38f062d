package analysis

import (
	"net/url"
	"time"
)

// Domain is one of the three analysis targets
type Domain string

const (
	DomainNews    Domain = "news"
	DomainYouTube Domain = "youtube"
	DomainReddit  Domain = "reddit"
)

// Domains lists every supported domain
var Domains = [...]Domain{DomainNews, DomainYouTube, DomainReddit}

// Valid reports whether d is a supported domain
func (d Domain) Valid() bool {
	switch d {
	case DomainNews, DomainYouTube, DomainReddit:
		return true
	}
	return false
}

// IsSocial reports whether d analyzes comments (YouTube, Reddit)
func (d Domain) IsSocial() bool {
	return d == DomainYouTube || d == DomainReddit
}

func (d Domain) String() string {
	return string(d)
}

// Category is a news sector
type Category string

const (
	CategoryFinance    Category = "Finance"
	CategoryEducation  Category = "Education"
	CategoryHealthcare Category = "Healthcare"
)

// Categories lists the supported news sectors
var Categories = [...]Category{CategoryFinance, CategoryEducation, CategoryHealthcare}

// Valid reports whether c is a supported category
func (c Category) Valid() bool {
	switch c {
	case CategoryFinance, CategoryEducation, CategoryHealthcare:
		return true
	}
	return false
}

// Language is the article language the service analyzes in
type Language string

const (
	LanguageEnglish Language = "en"
	LanguageHindi   Language = "hi"
)

// Valid reports whether l is a supported language
func (l Language) Valid() bool {
	return l == LanguageEnglish || l == LanguageHindi
}

// Params is implemented by the per-domain request parameter types
type Params interface {
	params()
}

// NewsParams filters news articles. From and To are calendar dates; any time
// component is ignored.
type NewsParams struct {
	Category Category
	From     time.Time
	To       time.Time
	Language Language
}

func (NewsParams) params() {}

// SocialParams identifies a YouTube video (ID) or a Reddit post (URL)
type SocialParams struct {
	Target string
}

func (SocialParams) params() {}

// Descriptor is a validated outbound request: method, path and either a
// query (GET) or a JSON body (POST)
type Descriptor struct {
	Domain Domain
	Method string
	Path   string
	Query  url.Values
	Body   map[string]string
}

// URL joins the descriptor path and query onto baseURL
func (d Descriptor) URL(baseURL string) string {
	u := baseURL + d.Path
	if len(d.Query) > 0 {
		u += "?" + d.Query.Encode()
	}
	return u
}
