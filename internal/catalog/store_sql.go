package catalog

import (
	"context"
	"database/sql"
)

// SQLStore serves the marketing/catalog read models and their admin
// write path. Rich CMS editing lives in the admin frontend, out of scope
// here.
type SQLStore struct {
	db *sql.DB
}

func NewSQLStore(db *sql.DB) *SQLStore {
	return &SQLStore{db: db}
}

func (s *SQLStore) ListCourses(ctx context.Context, activeOnly bool) ([]Course, error) {
	q := `SELECT id,title,description,image_url,price,position,active FROM courses`
	if activeOnly {
		q += ` WHERE active = TRUE`
	}
	q += ` ORDER BY position, title`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Course
	for rows.Next() {
		var c Course
		if err := rows.Scan(&c.ID, &c.Title, &c.Description, &c.ImageURL, &c.Price, &c.Position, &c.Active); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutCourse(ctx context.Context, c Course) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO courses (id,title,description,image_url,price,position,active)
		VALUES ($1,$2,$3,$4,$5,$6,$7)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description,
		  image_url=EXCLUDED.image_url, price=EXCLUDED.price, position=EXCLUDED.position, active=EXCLUDED.active`,
		c.ID, c.Title, c.Description, c.ImageURL, c.Price, c.Position, c.Active)
	return err
}

func (s *SQLStore) ListSeries(ctx context.Context, activeOnly bool) ([]TestSeries, error) {
	q := `SELECT id,title,description,active FROM test_series`
	if activeOnly {
		q += ` WHERE active = TRUE`
	}
	q += ` ORDER BY title`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []TestSeries
	for rows.Next() {
		var ts TestSeries
		if err := rows.Scan(&ts.ID, &ts.Title, &ts.Description, &ts.Active); err != nil {
			return nil, err
		}
		out = append(out, ts)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutSeries(ctx context.Context, ts TestSeries) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO test_series (id,title,description,active)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (id) DO UPDATE SET title=EXCLUDED.title, description=EXCLUDED.description, active=EXCLUDED.active`,
		ts.ID, ts.Title, ts.Description, ts.Active)
	return err
}

func (s *SQLStore) ListTestimonials(ctx context.Context, activeOnly bool) ([]Testimonial, error) {
	q := `SELECT id,author,body,rating,image_url,active FROM testimonials`
	if activeOnly {
		q += ` WHERE active = TRUE`
	}
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Testimonial
	for rows.Next() {
		var t Testimonial
		if err := rows.Scan(&t.ID, &t.Author, &t.Body, &t.Rating, &t.ImageURL, &t.Active); err != nil {
			return nil, err
		}
		out = append(out, t)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutTestimonial(ctx context.Context, t Testimonial) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO testimonials (id,author,body,rating,image_url,active)
		VALUES ($1,$2,$3,$4,$5,$6)
		ON CONFLICT (id) DO UPDATE SET author=EXCLUDED.author, body=EXCLUDED.body,
		  rating=EXCLUDED.rating, image_url=EXCLUDED.image_url, active=EXCLUDED.active`,
		t.ID, t.Author, t.Body, t.Rating, t.ImageURL, t.Active)
	return err
}

func (s *SQLStore) ListFAQs(ctx context.Context, activeOnly bool) ([]FAQ, error) {
	q := `SELECT id,question,answer,position,active FROM faqs`
	if activeOnly {
		q += ` WHERE active = TRUE`
	}
	q += ` ORDER BY position`
	rows, err := s.db.QueryContext(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []FAQ
	for rows.Next() {
		var f FAQ
		if err := rows.Scan(&f.ID, &f.Question, &f.Answer, &f.Position, &f.Active); err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

func (s *SQLStore) PutFAQ(ctx context.Context, f FAQ) error {
	_, err := s.db.ExecContext(ctx, `INSERT INTO faqs (id,question,answer,position,active)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (id) DO UPDATE SET question=EXCLUDED.question, answer=EXCLUDED.answer,
		  position=EXCLUDED.position, active=EXCLUDED.active`,
		f.ID, f.Question, f.Answer, f.Position, f.Active)
	return err
}
