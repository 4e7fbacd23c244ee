package controllers_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	. "github.com/smartystreets/goconvey/convey"

	"github.com/emiilyxiia/microservices-3/models"
	"github.com/emiilyxiia/microservices-3/router"
	"github.com/emiilyxiia/microservices-3/services"
	"github.com/emiilyxiia/microservices-3/store"
)

const (
	rankingID = "1d2c3b4a-1111-4222-8333-444455556666"
	userID    = "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa"
)

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	log := logrus.New()
	svc := services.NewRankingService(store.NewMemoryStore(), nil, log)
	r := gin.New()
	router.Initialize(r, svc, log)
	return r
}

func do(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

const createBody = `{
	"id": "1d2c3b4a-1111-4222-8333-444455556666",
	"user_id": "aaaaaaaa-aaaa-4aaa-8aaa-aaaaaaaaaaaa",
	"items": [{"name": "Ikuyo", "origin": "home", "rating": 3.9, "cost_per_gram": 0.8}]
}`

func TestRankingLifecycle(t *testing.T) {
	Convey("Given the rankings API", t, func() {
		r := newTestRouter()

		Convey("When posting a new ranking", func() {
			w := do(r, http.MethodPost, "/ranking", createBody)

			Convey("Then it is created and echoed back with timestamps", func() {
				So(w.Code, ShouldEqual, http.StatusCreated)

				var got models.Ranking
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.ID, ShouldEqual, rankingID)
				So(got.UserID, ShouldEqual, userID)
				So(got.Items, ShouldHaveLength, 1)
				So(got.Items[0].Name, ShouldEqual, "Ikuyo")
				So(got.Items[0].Rating, ShouldEqual, 3.9)
				So(got.CreatedAt.IsZero(), ShouldBeFalse)
				So(got.UpdatedAt.IsZero(), ShouldBeFalse)
			})

			Convey("And listing with min_rating=4 filters it out", func() {
				w := do(r, http.MethodGet, "/ranking?user_id="+userID+"&min_rating=4", "")
				So(w.Code, ShouldEqual, http.StatusOK)
				So(strings.TrimSpace(w.Body.String()), ShouldEqual, "[]")
			})

			Convey("And after patching the rating to 4.5 the filter matches", func() {
				w := do(r, http.MethodPatch, "/ranking/"+rankingID+"/item/0", `{"rating": 4.5}`)
				So(w.Code, ShouldEqual, http.StatusOK)
				So(w.Body.String(), ShouldContainSubstring, "item updated")

				w = do(r, http.MethodGet, "/ranking?user_id="+userID+"&min_rating=4", "")
				So(w.Code, ShouldEqual, http.StatusOK)

				var got []models.Ranking
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got, ShouldHaveLength, 1)
				So(got[0].Items, ShouldHaveLength, 1)
				So(got[0].Items[0].Rating, ShouldEqual, 4.5)
			})

			Convey("And a colliding item for the same user conflicts", func() {
				body := strings.Replace(createBody, rankingID, "1d2c3b4a-2222-4222-8333-444455556666", 1)
				w := do(r, http.MethodPost, "/ranking", body)
				So(w.Code, ShouldEqual, http.StatusConflict)
			})

			Convey("And the same item for another user is accepted", func() {
				body := strings.Replace(createBody, rankingID, "1d2c3b4a-2222-4222-8333-444455556666", 1)
				body = strings.Replace(body, userID, "bbbbbbbb-bbbb-4bbb-8bbb-bbbbbbbbbbbb", 1)
				w := do(r, http.MethodPost, "/ranking", body)
				So(w.Code, ShouldEqual, http.StatusCreated)
			})

			Convey("And PUT replaces the whole item list", func() {
				w := do(r, http.MethodPut, "/ranking/"+rankingID,
					`{"items": [{"name": "Yame", "origin": "cafe", "rating": 4.9, "cost_per_gram": 2.4}]}`)
				So(w.Code, ShouldEqual, http.StatusOK)

				var got models.Ranking
				So(json.Unmarshal(w.Body.Bytes(), &got), ShouldBeNil)
				So(got.Items, ShouldHaveLength, 1)
				So(got.Items[0].Name, ShouldEqual, "Yame")
			})

			Convey("And DELETE removes it", func() {
				w := do(r, http.MethodDelete, "/ranking/"+rankingID, "")
				So(w.Code, ShouldEqual, http.StatusNoContent)

				w = do(r, http.MethodGet, "/ranking/"+rankingID, "")
				So(w.Code, ShouldEqual, http.StatusNotFound)
			})
		})
	})
}

func TestRankingValidation(t *testing.T) {
	Convey("Given the rankings API", t, func() {
		r := newTestRouter()

		Convey("Listing without user_id is rejected", func() {
			w := do(r, http.MethodGet, "/ranking", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("A rating above 5 in the query is rejected", func() {
			w := do(r, http.MethodGet, "/ranking?user_id="+userID+"&min_rating=9", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("An unknown origin is rejected", func() {
			w := do(r, http.MethodGet, "/ranking?user_id="+userID+"&origin=office", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("A malformed ranking id in the path is rejected", func() {
			w := do(r, http.MethodGet, "/ranking/not-a-uuid", "")
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("A create payload with a bad origin is rejected", func() {
			w := do(r, http.MethodPost, "/ranking",
				strings.Replace(createBody, "home", "office", 1))
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("A create payload without the items key is rejected", func() {
			w := do(r, http.MethodPost, "/ranking",
				`{"id": "`+rankingID+`", "user_id": "`+userID+`"}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("A create payload with an explicit empty item list is accepted", func() {
			w := do(r, http.MethodPost, "/ranking",
				`{"id": "`+rankingID+`", "user_id": "`+userID+`", "items": []}`)
			So(w.Code, ShouldEqual, http.StatusCreated)
		})

		Convey("A replace payload without the items key is rejected", func() {
			So(do(r, http.MethodPost, "/ranking", createBody).Code, ShouldEqual, http.StatusCreated)
			w := do(r, http.MethodPut, "/ranking/"+rankingID, `{}`)
			So(w.Code, ShouldEqual, http.StatusUnprocessableEntity)
		})

		Convey("Mutations of unknown rankings are 404", func() {
			w := do(r, http.MethodPut, "/ranking/"+rankingID, `{"items": []}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)

			w = do(r, http.MethodDelete, "/ranking/"+rankingID, "")
			So(w.Code, ShouldEqual, http.StatusNotFound)

			w = do(r, http.MethodPatch, "/ranking/"+rankingID+"/item/0", `{"rating": 1}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("An out-of-range item index is 404", func() {
			So(do(r, http.MethodPost, "/ranking", createBody).Code, ShouldEqual, http.StatusCreated)
			w := do(r, http.MethodPatch, "/ranking/"+rankingID+"/item/5", `{"rating": 1}`)
			So(w.Code, ShouldEqual, http.StatusNotFound)
		})

		Convey("The health endpoint reports status and timestamp", func() {
			w := do(r, http.MethodGet, "/health", "")
			So(w.Code, ShouldEqual, http.StatusOK)
			So(w.Body.String(), ShouldContainSubstring, `"status":"ok"`)
			So(w.Body.String(), ShouldContainSubstring, "timestamp")
		})
	})
}
