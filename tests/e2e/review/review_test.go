//go:build e2e

package review_test

import (
	"fmt"
	"net/http"
	gohttptest "net/http/httptest"
	"testing"
	"time"

	"travelnest/internal/handler/dto/request"
	"travelnest/internal/handler/dto/response"
	"travelnest/tests/common/authtest"
	"travelnest/tests/common/dbtest"
	"travelnest/tests/common/httptest"
	"travelnest/tests/e2e"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const (
	guestEmail  = "guest@example.com"
	hostEmail   = "host@example.com"
	nightlyRate = 15000
)

type reviewSuite struct {
	e2e.SharedSuite
}

func TestReviewSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(reviewSuite))
}

type reviewFixture struct {
	guestID    uuid.UUID
	hostID     uuid.UUID
	propertyID uuid.UUID
	guestToken string
}

func (s *reviewSuite) seedFixture() reviewFixture {
	t := s.T()

	hostID := dbtest.CreateTestUser(t, s.DB, hostEmail, "host")
	guestID := dbtest.CreateTestUser(t, s.DB, guestEmail, "guest")
	propertyID := dbtest.CreateTestProperty(t, s.DB, hostID, "Mountain Cabin", nightlyRate)

	return reviewFixture{
		guestID:    guestID,
		hostID:     hostID,
		propertyID: propertyID,
		guestToken: authtest.LoginUser(t, s.Router, guestEmail, "password123"),
	}
}

// seedCompletedStay creates a confirmed booking whose stay already ended,
// which is the state that unlocks review posting.
func (s *reviewSuite) seedCompletedStay(fx reviewFixture) uuid.UUID {
	start := time.Now().UTC().AddDate(0, 0, -10)
	return dbtest.CreateTestBooking(s.T(), s.DB, fx.propertyID, fx.guestID,
		start, start.AddDate(0, 0, 3), "confirmed", 3*nightlyRate)
}

func reviewsURL(propertyID uuid.UUID) string {
	return fmt.Sprintf("/api/properties/%s/reviews", propertyID)
}

func ratingURL(propertyID uuid.UUID) string {
	return fmt.Sprintf("/api/properties/%s/rating", propertyID)
}

func (s *reviewSuite) postReview(token string, propertyID, bookingID uuid.UUID, rating int, comment string) *gohttptest.ResponseRecorder {
	return httptest.PerformRequest(s.T(), s.Router, http.MethodPost, reviewsURL(propertyID),
		request.CreateReviewRequest{BookingID: bookingID, Rating: rating, Comment: comment}, token)
}

func (s *reviewSuite) TestCreateReview() {
	s.Run("完了した滞在のレビューが作成できる", func() {
		t := s.T()
		fx := s.seedFixture()
		bookingID := s.seedCompletedStay(fx)

		w := s.postReview(fx.guestToken, fx.propertyID, bookingID, 5, "Great stay, spotless cabin.")
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

		var res response.ReviewResponse
		httptest.DecodeResponseBody(t, w.Body, &res)
		require.Equal(t, fx.propertyID, res.PropertyID)
		require.Equal(t, bookingID, res.BookingID)
		require.Equal(t, fx.guestID, res.GuestID)
		require.Equal(t, int32(5), res.Rating)
		require.Equal(t, "Great stay, spotless cabin.", res.Comment)
	})

	s.Run("同一物件への二度目のレビューは409", func() {
		t := s.T()
		fx := s.seedFixture()
		bookingID := s.seedCompletedStay(fx)

		w1 := s.postReview(fx.guestToken, fx.propertyID, bookingID, 4, "Nice.")
		require.Equal(t, http.StatusCreated, w1.Code)

		// 別の完了済み予約からでも物件ごとに一件まで
		secondBooking := s.seedCompletedStayAt(fx, -30)
		w2 := s.postReview(fx.guestToken, fx.propertyID, secondBooking, 5, "Still nice.")
		require.Equal(t, http.StatusConflict, w2.Code, w2.Body.String())
	})

	s.Run("pendingの予約では400", func() {
		t := s.T()
		fx := s.seedFixture()
		start := time.Now().UTC().AddDate(0, 0, -10)
		bookingID := dbtest.CreateTestBooking(t, s.DB, fx.propertyID, fx.guestID,
			start, start.AddDate(0, 0, 3), "pending", 3*nightlyRate)

		w := s.postReview(fx.guestToken, fx.propertyID, bookingID, 4, "Too early.")
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	s.Run("滞在が終わっていない予約では400", func() {
		t := s.T()
		fx := s.seedFixture()
		start := time.Now().UTC().AddDate(0, 0, 1)
		bookingID := dbtest.CreateTestBooking(t, s.DB, fx.propertyID, fx.guestID,
			start, start.AddDate(0, 0, 3), "confirmed", 3*nightlyRate)

		w := s.postReview(fx.guestToken, fx.propertyID, bookingID, 4, "Not checked out yet.")
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	s.Run("他人の予約では400", func() {
		t := s.T()
		fx := s.seedFixture()
		otherGuestID := dbtest.CreateTestUser(t, s.DB, "other@example.com", "guest")
		start := time.Now().UTC().AddDate(0, 0, -10)
		bookingID := dbtest.CreateTestBooking(t, s.DB, fx.propertyID, otherGuestID,
			start, start.AddDate(0, 0, 3), "confirmed", 3*nightlyRate)

		w := s.postReview(fx.guestToken, fx.propertyID, bookingID, 4, "Not my stay.")
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	s.Run("存在しない予約では400", func() {
		t := s.T()
		fx := s.seedFixture()

		w := s.postReview(fx.guestToken, fx.propertyID, uuid.New(), 4, "Ghost booking.")
		require.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
	})

	s.Run("不正な入力は400", func() {
		t := s.T()
		fx := s.seedFixture()
		bookingID := s.seedCompletedStay(fx)

		cases := []struct {
			name    string
			rating  int
			comment string
		}{
			{"評価が範囲外", 6, "Too good."},
			{"コメントが空", 5, ""},
		}
		for _, c := range cases {
			w := s.postReview(fx.guestToken, fx.propertyID, bookingID, c.rating, c.comment)
			require.Equal(t, http.StatusBadRequest, w.Code, c.name)
		}
	})

	s.Run("認証なしは401", func() {
		t := s.T()
		fx := s.seedFixture()

		w := s.postReview("", fx.propertyID, uuid.New(), 4, "Anonymous.")
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}

// seedCompletedStayAt is like seedCompletedStay with a custom offset so a
// guest can hold several non-overlapping finished stays.
func (s *reviewSuite) seedCompletedStayAt(fx reviewFixture, daysFromNow int) uuid.UUID {
	start := time.Now().UTC().AddDate(0, 0, daysFromNow)
	return dbtest.CreateTestBooking(s.T(), s.DB, fx.propertyID, fx.guestID,
		start, start.AddDate(0, 0, 3), "confirmed", 3*nightlyRate)
}

func (s *reviewSuite) TestListReviews() {
	s.Run("レビュー一覧が新しい順で返る", func() {
		t := s.T()
		fx := s.seedFixture()
		bookingID := s.seedCompletedStay(fx)

		w := s.postReview(fx.guestToken, fx.propertyID, bookingID, 5, "Wonderful.")
		require.Equal(t, http.StatusCreated, w.Code)

		// 別ゲストのレビューも並ぶ
		otherGuestID := dbtest.CreateTestUser(t, s.DB, "other@example.com", "guest")
		otherToken := authtest.LoginUser(t, s.Router, "other@example.com", "password123")
		start := time.Now().UTC().AddDate(0, 0, -30)
		otherBooking := dbtest.CreateTestBooking(t, s.DB, fx.propertyID, otherGuestID,
			start, start.AddDate(0, 0, 2), "confirmed", 2*nightlyRate)
		w2 := s.postReview(otherToken, fx.propertyID, otherBooking, 3, "Decent.")
		require.Equal(t, http.StatusCreated, w2.Code, w2.Body.String())

		listW := httptest.PerformRequest(t, s.Router, http.MethodGet, reviewsURL(fx.propertyID), nil, "")
		require.Equal(t, http.StatusOK, listW.Code)

		var list response.ReviewListResponse
		httptest.DecodeResponseBody(t, listW.Body, &list)
		require.Len(t, list.Items, 2)
		require.Equal(t, int32(3), list.Items[0].Rating)
		require.Equal(t, int32(5), list.Items[1].Rating)
	})

	s.Run("limitでページングできる", func() {
		t := s.T()
		fx := s.seedFixture()
		bookingID := s.seedCompletedStay(fx)

		w := s.postReview(fx.guestToken, fx.propertyID, bookingID, 5, "Wonderful.")
		require.Equal(t, http.StatusCreated, w.Code)

		listW := httptest.PerformRequest(t, s.Router, http.MethodGet,
			reviewsURL(fx.propertyID)+"?limit=1", nil, "")
		require.Equal(t, http.StatusOK, listW.Code)

		var list response.ReviewListResponse
		httptest.DecodeResponseBody(t, listW.Body, &list)
		require.Len(t, list.Items, 1)
	})

	s.Run("不正なカーソルは400", func() {
		t := s.T()
		fx := s.seedFixture()

		listW := httptest.PerformRequest(t, s.Router, http.MethodGet,
			reviewsURL(fx.propertyID)+"?after=not-a-cursor", nil, "")
		require.Equal(t, http.StatusBadRequest, listW.Code)
	})
}

func (s *reviewSuite) TestRatingStats() {
	s.Run("レビューのない物件は件数ゼロ", func() {
		t := s.T()
		fx := s.seedFixture()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, ratingURL(fx.propertyID), nil, "")
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var stats response.PropertyRatingStatsResponse
		httptest.DecodeResponseBody(t, w.Body, &stats)
		require.Equal(t, fx.propertyID, stats.PropertyID)
		require.Equal(t, int32(0), stats.ReviewCount)
	})

	s.Run("レビュー作成で集計が更新される", func() {
		t := s.T()
		fx := s.seedFixture()
		bookingID := s.seedCompletedStay(fx)

		w := s.postReview(fx.guestToken, fx.propertyID, bookingID, 4, "Good.")
		require.Equal(t, http.StatusCreated, w.Code)

		statsW := httptest.PerformRequest(t, s.Router, http.MethodGet, ratingURL(fx.propertyID), nil, "")
		require.Equal(t, http.StatusOK, statsW.Code)

		var stats response.PropertyRatingStatsResponse
		httptest.DecodeResponseBody(t, statsW.Body, &stats)
		require.Equal(t, int32(1), stats.ReviewCount)
		require.InDelta(t, 4.0, stats.AverageRating, 0.001)
	})

	s.Run("存在しない物件は404", func() {
		t := s.T()
		s.seedFixture()

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, ratingURL(uuid.New()), nil, "")
		require.Equal(t, http.StatusNotFound, w.Code)
	})
}
