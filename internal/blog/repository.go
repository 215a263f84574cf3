package blog

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"

	inErrors "github.com/verdantlabs/storefront/internal/errors"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/otel"
)

const postColumns = "id, slug, title, description, author, tags, image, content, published_at"

type Repository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) Repository {
	return Repository{pool: pool}
}

func scanPost(row pgx.Row) (Post, error) {
	post := Post{}
	err := row.Scan(
		&post.ID,
		&post.Slug,
		&post.Title,
		&post.Description,
		&post.Author,
		&post.Tags,
		&post.Image,
		&post.Content,
		&post.PublishedAt,
	)
	return post, err
}

// ListPosts returns published posts newest first.
func (r Repository) ListPosts(c context.Context, limit int, offset int) ([]Post, error) {
	c, span := otel.Tracer.Start(c, "Repository ListPosts")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Repository ListPosts").
		Int(log.KeyLimit, limit).
		Logger()

	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(
		c,
		"select "+postColumns+" from blog_posts order by published_at desc limit $1 offset $2",
		limit,
		offset,
	)
	if err != nil {
		err = fmt.Errorf("failed listing posts with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			err = fmt.Errorf("failed scanning post with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		err = fmt.Errorf("failed iterating posts with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	logger.Info().Msgf("listed %d posts", len(posts))
	return posts, nil
}

func (r Repository) GetPostBySlug(c context.Context, slug string) (Post, error) {
	c, span := otel.Tracer.Start(c, "Repository GetPostBySlug")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Repository GetPostBySlug").
		Str(log.KeySlug, slug).
		Logger()

	post, err := scanPost(r.pool.QueryRow(
		c,
		"select "+postColumns+" from blog_posts where slug = $1",
		slug,
	))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			err = inErrors.NotFound(fmt.Sprintf("no post with slug=%s", slug))
			logger.Warn().Err(err).Msg(err.Error())
			return Post{}, err
		}
		err = fmt.Errorf("failed getting post by slug=%s with error=%w", slug, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Post{}, err
	}
	return post, nil
}

func (r Repository) ListPostsByTag(c context.Context, tag string, limit int) ([]Post, error) {
	c, span := otel.Tracer.Start(c, "Repository ListPostsByTag")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Repository ListPostsByTag").
		Str(log.KeyPostTag, tag).
		Logger()

	if limit <= 0 {
		limit = 10
	}

	rows, err := r.pool.Query(
		c,
		"select "+postColumns+" from blog_posts where $1 = any(tags) order by published_at desc limit $2",
		tag,
		limit,
	)
	if err != nil {
		err = fmt.Errorf("failed listing posts by tag=%s with error=%w", tag, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	defer rows.Close()

	posts := []Post{}
	for rows.Next() {
		post, err := scanPost(rows)
		if err != nil {
			err = fmt.Errorf("failed scanning post with error=%w", err)
			otel.RecordError(err, span)
			logger.Error().Err(err).Msg(err.Error())
			return nil, err
		}
		posts = append(posts, post)
	}
	if err := rows.Err(); err != nil {
		err = fmt.Errorf("failed iterating posts with error=%w", err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return nil, err
	}
	return posts, nil
}

// CreatePost inserts a post and returns it with the generated id.
func (r Repository) CreatePost(c context.Context, post Post) (Post, error) {
	c, span := otel.Tracer.Start(c, "Repository CreatePost")
	defer span.End()

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "Repository CreatePost").
		Str(log.KeySlug, post.Slug).
		Logger()

	created, err := scanPost(r.pool.QueryRow(
		c,
		`insert into blog_posts (slug, title, description, author, tags, image, content, published_at)
		 values ($1, $2, $3, $4, $5, $6, $7, coalesce(nullif($8, '0001-01-01T00:00:00Z'::timestamptz), now()))
		 returning `+postColumns,
		post.Slug,
		post.Title,
		post.Description,
		post.Author,
		post.Tags,
		post.Image,
		post.Content,
		post.PublishedAt,
	))
	if err != nil {
		err = fmt.Errorf("failed creating post with slug=%s with error=%w", post.Slug, err)
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		return Post{}, err
	}
	logger.Info().Msgf("created post with slug=%s", created.Slug)
	return created, nil
}
