package database

import (
	"database/sql"
	"fmt"

	"github.com/lysyi3m/provenance/app/articles"
)

var _ articles.Gateway = (*ArticleRepository)(nil)

// ArticleRepository stores articles in sqlite. Rows are returned in insertion
// order, which is feed order.
type ArticleRepository struct {
	db *DB
}

func NewArticleRepository(db *DB) *ArticleRepository {
	return &ArticleRepository{db: db}
}

func (r *ArticleRepository) FindAll() ([]articles.Article, error) {
	return r.query(`SELECT id, source, title, available FROM articles ORDER BY id`)
}

func (r *ArticleRepository) FindAvailable() ([]articles.Article, error) {
	return r.query(`SELECT id, source, title, available FROM articles WHERE available = 1 ORDER BY id`)
}

func (r *ArticleRepository) Count() (int, error) {
	var count int
	err := r.db.QueryRow(`SELECT COUNT(*) FROM articles`).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("failed to count articles: %w", err)
	}
	return count, nil
}

func (r *ArticleRepository) Save(source, title string, available bool) (articles.Article, error) {
	result, err := r.db.Exec(`INSERT INTO articles (source, title, available) VALUES (?, ?, ?)`, source, title, available)
	if err != nil {
		return articles.Article{}, fmt.Errorf("failed to insert article: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return articles.Article{}, fmt.Errorf("failed to read article id: %w", err)
	}

	return articles.Article{ID: id, Source: source, Title: title, Available: available}, nil
}

// Seed inserts records with their own ids, skipping ids that already exist.
func (r *ArticleRepository) Seed(records []articles.Article) error {
	for _, record := range records {
		_, err := r.db.Exec(`INSERT OR IGNORE INTO articles (id, source, title, available) VALUES (?, ?, ?, ?)`,
			record.ID, record.Source, record.Title, record.Available)
		if err != nil {
			return fmt.Errorf("failed to seed article %d: %w", record.ID, err)
		}
	}
	return nil
}

func (r *ArticleRepository) ClearSource(source string) error {
	_, err := r.db.Exec(`DELETE FROM articles WHERE source = ?`, source)
	if err != nil {
		return fmt.Errorf("failed to clear articles of %s: %w", source, err)
	}
	return nil
}

func (r *ArticleRepository) Clear() error {
	_, err := r.db.Exec(`DELETE FROM articles`)
	if err != nil {
		return fmt.Errorf("failed to clear articles: %w", err)
	}
	return nil
}

func (r *ArticleRepository) query(query string, args ...interface{}) ([]articles.Article, error) {
	rows, err := r.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query articles: %w", err)
	}
	defer rows.Close()

	result := make([]articles.Article, 0)
	for rows.Next() {
		var article articles.Article
		var available sql.NullBool
		if err := rows.Scan(&article.ID, &article.Source, &article.Title, &available); err != nil {
			return nil, fmt.Errorf("failed to scan article: %w", err)
		}
		article.Available = available.Bool
		result = append(result, article)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate articles: %w", err)
	}

	return result, nil
}
