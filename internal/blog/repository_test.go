package blog

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"

	inErrors "github.com/verdantlabs/storefront/internal/errors"
)

func setup(t *testing.T, c context.Context) (*pgxpool.Pool, *postgres.PostgresContainer, Repository) {
	t.Helper()

	pgContainer, err := postgres.Run(
		c,
		"postgres:16.6-alpine3.21",
		testcontainers.WithEnv(map[string]string{
			"POSTGRES_DB":       "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_PORT":     "5432",
			"POSTGRES_USER":     "postgres",
		}),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		postgres.WithDatabase("postgres"),
		postgres.BasicWaitStrategies(),
		postgres.WithInitScripts(
			filepath.Join("..", "..", "migrations", "000001_create_blog_posts.up.sql"),
		),
	)
	if err != nil {
		t.Fatalf("failed running postgres container with error: %s", err)
	}

	pgConnStr, err := pgContainer.ConnectionString(c)
	if err != nil {
		t.Fatalf("failed getting postgres connection string with error: %s", err)
	}

	pgConfig, err := pgxpool.ParseConfig(pgConnStr)
	if err != nil {
		t.Fatalf("failed parsing pgconfig with error: %s", err)
	}

	pool, err := pgxpool.NewWithConfig(c, pgConfig)
	if err != nil {
		t.Fatalf("failed creating postgres pool with error: %s", err)
	}
	if err = pool.Ping(c); err != nil {
		t.Fatalf("failed ping postgres pool with error: %s", err)
	}

	return pool, pgContainer, NewRepository(pool)
}

func teardown(t *testing.T, c context.Context, pool *pgxpool.Pool, pgContainer *postgres.PostgresContainer) {
	t.Helper()
	pool.Close()
	if err := pgContainer.Terminate(c); err != nil {
		t.Logf("failed terminating postgres container with error: %s", err)
	}
}

func seedPosts(t *testing.T, c context.Context, repo Repository) []Post {
	t.Helper()

	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	fixtures := []Post{
		{
			Slug:        "spring-lookbook",
			Title:       "Spring Lookbook",
			Description: "What we are wearing this season",
			Author:      "Ines",
			Tags:        []string{"lookbook", "spring"},
			Content:     "Lighter layers are back.",
			PublishedAt: base,
		},
		{
			Slug:        "care-guide-merino",
			Title:       "Caring for Merino",
			Description: "Keep knits in shape",
			Author:      "Tomas",
			Tags:        []string{"care"},
			Content:     "Cold wash, flat dry.",
			PublishedAt: base.Add(24 * time.Hour),
		},
		{
			Slug:        "summer-lookbook",
			Title:       "Summer Lookbook",
			Description: "Linen everything",
			Author:      "Ines",
			Tags:        []string{"lookbook", "summer"},
			Content:     "Linen is the season's fabric.",
			PublishedAt: base.Add(48 * time.Hour),
		},
	}

	created := make([]Post, 0, len(fixtures))
	for _, fixture := range fixtures {
		post, err := repo.CreatePost(c, fixture)
		require.NoError(t, err)
		created = append(created, post)
	}
	return created
}

func TestRepository(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}

	c := context.Background()
	pool, pgContainer, repo := setup(t, c)
	defer teardown(t, c, pool, pgContainer)

	seeded := seedPosts(t, c, repo)

	t.Run("ListPostsNewestFirst", func(t *testing.T) {
		posts, err := repo.ListPosts(c, 10, 0)
		require.NoError(t, err)
		require.Len(t, posts, 3)
		assert.Equal(t, "summer-lookbook", posts[0].Slug)
		assert.Equal(t, "care-guide-merino", posts[1].Slug)
		assert.Equal(t, "spring-lookbook", posts[2].Slug)
	})

	t.Run("ListPostsPaginates", func(t *testing.T) {
		posts, err := repo.ListPosts(c, 2, 2)
		require.NoError(t, err)
		require.Len(t, posts, 1)
		assert.Equal(t, "spring-lookbook", posts[0].Slug)
	})

	t.Run("GetPostBySlug", func(t *testing.T) {
		post, err := repo.GetPostBySlug(c, "care-guide-merino")
		require.NoError(t, err)
		assert.Equal(t, seeded[1].ID, post.ID)
		assert.Equal(t, "Caring for Merino", post.Title)
		assert.Equal(t, []string{"care"}, post.Tags)
	})

	t.Run("GetPostBySlugNotFound", func(t *testing.T) {
		_, err := repo.GetPostBySlug(c, "no-such-post")
		require.Error(t, err)
		assert.True(t, inErrors.IsNotFound(err))
	})

	t.Run("ListPostsByTag", func(t *testing.T) {
		posts, err := repo.ListPostsByTag(c, "lookbook", 10)
		require.NoError(t, err)
		require.Len(t, posts, 2)
		assert.Equal(t, "summer-lookbook", posts[0].Slug)
		assert.Equal(t, "spring-lookbook", posts[1].Slug)
	})

	t.Run("CreatePostRejectsDuplicateSlug", func(t *testing.T) {
		_, err := repo.CreatePost(c, Post{Slug: "spring-lookbook", Title: "Duplicate"})
		assert.Error(t, err)
	})
}
