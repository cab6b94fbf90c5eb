package articles

type Article struct {
	ID        int64
	Source    string // endpoint the article was polled from
	Title     string
	Available bool
}

// Info is the public JSON view of an article.
type Info struct {
	ID    int64  `json:"id"`
	Title string `json:"title"`
}

func (a Article) Info() Info {
	return Info{ID: a.ID, Title: a.Title}
}

// Gateway is the derived article store. One instance is built at startup and
// shared by the feed worker (writes) and the HTTP handlers (reads).
type Gateway interface {
	FindAll() ([]Article, error)
	FindAvailable() ([]Article, error)
	Count() (int, error)

	Save(source, title string, available bool) (Article, error)
	// ClearSource drops the articles polled from one endpoint.
	ClearSource(source string) error
	Clear() error
}

// DefaultSource owns the demo records; it matches the built-in endpoint name.
const DefaultSource = "infoq"

// SeedRecords are the demo articles the service starts with before the first poll.
func SeedRecords() []Article {
	return []Article{
		{ID: 10101, Source: DefaultSource, Title: "Programming Languages InfoQ Trends Report - October 2019 4", Available: true},
		{ID: 10106, Source: DefaultSource, Title: "Ryan Kitchens on Learning from Incidents at Netflix, the Role of SRE, and Sociotechnical Systems", Available: true},
	}
}
