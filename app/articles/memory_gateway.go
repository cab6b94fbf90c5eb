package articles

import "sync"

var _ Gateway = (*MemoryGateway)(nil)

type MemoryGateway struct {
	mu       sync.RWMutex
	articles []Article
	nextID   int64
}

func NewMemoryGateway(initial ...Article) *MemoryGateway {
	g := &MemoryGateway{
		articles: make([]Article, 0, len(initial)),
		nextID:   1,
	}

	for _, article := range initial {
		g.articles = append(g.articles, article)
		if article.ID >= g.nextID {
			g.nextID = article.ID + 1
		}
	}

	return g
}

func (g *MemoryGateway) FindAll() ([]Article, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	all := make([]Article, len(g.articles))
	copy(all, g.articles)
	return all, nil
}

func (g *MemoryGateway) FindAvailable() ([]Article, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	available := make([]Article, 0, len(g.articles))
	for _, article := range g.articles {
		if article.Available {
			available = append(available, article)
		}
	}
	return available, nil
}

func (g *MemoryGateway) Count() (int, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return len(g.articles), nil
}

func (g *MemoryGateway) Save(source, title string, available bool) (Article, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	article := Article{
		ID:        g.nextID,
		Source:    source,
		Title:     title,
		Available: available,
	}
	g.nextID++
	g.articles = append(g.articles, article)

	return article, nil
}

func (g *MemoryGateway) ClearSource(source string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	kept := make([]Article, 0, len(g.articles))
	for _, article := range g.articles {
		if article.Source != source {
			kept = append(kept, article)
		}
	}
	g.articles = kept
	return nil
}

// Clear drops every stored article. Ids keep increasing across clears.
func (g *MemoryGateway) Clear() error {
	g.mu.Lock()
	defer g.mu.Unlock()

	g.articles = g.articles[:0:0]
	return nil
}
