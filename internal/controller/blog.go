package controller

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/verdantlabs/storefront/internal/blog"
	inHttp "github.com/verdantlabs/storefront/internal/http"
	"github.com/verdantlabs/storefront/internal/log"
	"github.com/verdantlabs/storefront/internal/otel"
)

type BlogController struct {
	posts blog.Repository
}

func AttachBlogController(router *mux.Router, posts blog.Repository) {
	controller := BlogController{posts: posts}

	sub := router.PathPrefix("/blog").Subrouter()
	sub.HandleFunc("", controller.ListPosts).Methods(http.MethodGet)
	sub.HandleFunc("/{slug}", controller.GetPostBySlug).Methods(http.MethodGet)
}

func (t BlogController) ListPosts(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "BlogController ListPosts")
	defer span.End()

	limit := intQueryParam(r, "limit", 10)
	offset := intQueryParam(r, "offset", 0)
	tag := r.URL.Query().Get("tag")

	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BlogController ListPosts").
		Int(log.KeyLimit, limit).
		Str(log.KeyPostTag, tag).
		Logger()
	c = logger.WithContext(c)

	var posts []blog.Post
	var err error
	if tag != "" {
		posts, err = t.posts.ListPostsByTag(c, tag, limit)
	} else {
		posts, err = t.posts.ListPosts(c, limit, offset)
	}
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully listed posts",
		"data":       map[string]interface{}{"posts": posts},
	})
}

func (t BlogController) GetPostBySlug(w http.ResponseWriter, r *http.Request) {
	c, span := otel.Tracer.Start(r.Context(), "BlogController GetPostBySlug")
	defer span.End()

	slug := mux.Vars(r)["slug"]
	logger := zerolog.Ctx(c).
		With().
		Str(log.KeyTag, "BlogController GetPostBySlug").
		Str(log.KeySlug, slug).
		Logger()
	c = logger.WithContext(c)

	post, err := t.posts.GetPostBySlug(c, slug)
	if err != nil {
		otel.RecordError(err, span)
		logger.Error().Err(err).Msg(err.Error())
		inHttp.WriteErrorResponse(c, w, err)
		return
	}

	inHttp.WriteJsonResponse(c, w, map[string]string{}, map[string]interface{}{
		"status":     "success",
		"statusCode": http.StatusOK,
		"message":    "successfully retrieved post",
		"data":       map[string]interface{}{"post": post},
	})
}
