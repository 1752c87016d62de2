//go:build e2e

package booking_test

import (
	"fmt"
	"net/http"
	"sync"
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
	bookingsURL   = "/api/bookings"
	dateLayout    = "2006-01-02"
	defaultRate   = 15000
	guestEmail    = "guest@example.com"
	hostEmail     = "host@example.com"
	strangerEmail = "stranger@example.com"
)

type bookingSuite struct {
	e2e.SharedSuite
}

func TestBookingSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(bookingSuite))
}

type bookingFixture struct {
	hostID     uuid.UUID
	guestID    uuid.UUID
	propertyID uuid.UUID
	guestToken string
	hostToken  string
}

func (s *bookingSuite) seedFixture() bookingFixture {
	t := s.T()

	hostID := dbtest.CreateTestUser(t, s.DB, hostEmail, "host")
	guestID := dbtest.CreateTestUser(t, s.DB, guestEmail, "guest")
	propertyID := dbtest.CreateTestProperty(t, s.DB, hostID, "Lakeside Cottage", defaultRate)

	return bookingFixture{
		hostID:     hostID,
		guestID:    guestID,
		propertyID: propertyID,
		guestToken: authtest.LoginUser(t, s.Router, guestEmail, "password123"),
		hostToken:  authtest.LoginUser(t, s.Router, hostEmail, "password123"),
	}
}

func stay(daysFromNow, nights int) (string, string) {
	start := time.Now().UTC().AddDate(0, 0, daysFromNow)
	end := start.AddDate(0, 0, nights)
	return start.Format(dateLayout), end.Format(dateLayout)
}

func (s *bookingSuite) createBooking(token string, propertyID uuid.UUID, startDate, endDate string) *response.BookingResponse {
	t := s.T()

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
		request.CreateBookingRequest{PropertyID: propertyID, StartDate: startDate, EndDate: endDate}, token)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var res response.BookingResponse
	httptest.DecodeResponseBody(t, w.Body, &res)
	return &res
}

func (s *bookingSuite) TestCreateBooking() {
	s.Run("予約が作成されpendingで返る", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		res := s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)

		require.Equal(t, "pending", res.Status)
		require.Equal(t, fx.propertyID, res.PropertyID)
		require.Equal(t, fx.guestID, res.GuestID)
		require.Equal(t, startDate, res.StartDate)
		require.Equal(t, endDate, res.EndDate)
		// 3泊 x 15000
		require.Equal(t, int64(45000), res.TotalPriceCents)
	})

	s.Run("重複する日程は409", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)

		overlapStart, overlapEnd := stay(8, 3)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			request.CreateBookingRequest{PropertyID: fx.propertyID, StartDate: overlapStart, EndDate: overlapEnd}, fx.guestToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("チェックアウト日からの連続予約は作成できる", func() {
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)

		// 前の予約の終了日がそのまま次の開始日
		nextStart, nextEnd := stay(10, 2)
		res := s.createBooking(fx.guestToken, fx.propertyID, nextStart, nextEnd)
		s.Require().Equal(endDate, res.StartDate)
		s.Require().Equal(nextEnd, res.EndDate)
	})

	s.Run("同じ日程への同時予約は1件だけ成功する", func() {
		t := s.T()
		fx := s.seedFixture()

		const attempts = 4
		tokens := make([]string, attempts)
		tokens[0] = fx.guestToken
		for i := 1; i < attempts; i++ {
			email := fmt.Sprintf("guest%d@example.com", i)
			tokens[i] = authtest.CreateAndLogin(t, s.DB, s.Router, email, "guest")
		}

		startDate, endDate := stay(7, 3)
		codes := make(chan int, attempts)
		var wg sync.WaitGroup
		for i := range attempts {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
					request.CreateBookingRequest{PropertyID: fx.propertyID, StartDate: startDate, EndDate: endDate}, tokens[i])
				codes <- w.Code
			}()
		}
		wg.Wait()
		close(codes)

		counts := map[int]int{}
		for code := range codes {
			counts[code]++
		}
		// 排他制約が勝者を1件に絞り、残りは全て409で弾かれる
		require.Equal(t, 1, counts[http.StatusCreated], "status counts: %v", counts)
		require.Equal(t, attempts-1, counts[http.StatusConflict], "status counts: %v", counts)
	})

	s.Run("ホスト自身の物件予約は409", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			request.CreateBookingRequest{PropertyID: fx.propertyID, StartDate: startDate, EndDate: endDate}, fx.hostToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("存在しない物件は404", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
			request.CreateBookingRequest{PropertyID: uuid.New(), StartDate: startDate, EndDate: endDate}, fx.guestToken)
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})

	s.Run("不正な日程は400", func() {
		t := s.T()
		fx := s.seedFixture()

		cases := []struct {
			name  string
			start string
			end   string
		}{
			{"開始と終了が同日", "2030-04-01", "2030-04-01"},
			{"開始が終了より後", "2030-04-05", "2030-04-01"},
			{"過去の開始日", "2020-01-01", "2020-01-05"},
			{"日付形式が不正", "01/04/2030", "2030-04-05"},
		}
		for _, c := range cases {
			w := httptest.PerformRequest(t, s.Router, http.MethodPost, bookingsURL,
				request.CreateBookingRequest{PropertyID: fx.propertyID, StartDate: c.start, EndDate: c.end}, fx.guestToken)
			require.Equal(t, http.StatusBadRequest, w.Code, "%s: %s", c.name, w.Body.String())
		}
	})

	s.Run("キャンセル済み予約の日程は再予約できる", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)

		cancelURL := fmt.Sprintf("%s/%s/cancel", bookingsURL, created.ID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, cancelURL, nil, fx.guestToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		// 排他制約はキャンセル済みを無視する
		rebooked := s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)
		require.NotEqual(t, created.ID, rebooked.ID)
	})
}

func (s *bookingSuite) TestGetBooking() {
	s.Run("ゲストとホストは予約を参照できる", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)
		url := fmt.Sprintf("%s/%s", bookingsURL, created.ID)

		for _, token := range []string{fx.guestToken, fx.hostToken} {
			w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, token)
			require.Equal(t, http.StatusOK, w.Code, w.Body.String())
		}
	})

	s.Run("無関係なユーザーは403", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)

		strangerToken := authtest.CreateAndLogin(t, s.DB, s.Router, strangerEmail, "guest")
		url := fmt.Sprintf("%s/%s", bookingsURL, created.ID)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, strangerToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	s.Run("存在しない予約は404", func() {
		t := s.T()
		fx := s.seedFixture()

		url := fmt.Sprintf("%s/%s", bookingsURL, uuid.New())
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, fx.guestToken)
		require.Equal(t, http.StatusNotFound, w.Code, w.Body.String())
	})
}

func (s *bookingSuite) TestListBookings() {
	s.Run("自分の予約一覧が新しい順で返る", func() {
		t := s.T()
		fx := s.seedFixture()

		firstStart, firstEnd := stay(7, 3)
		first := s.createBooking(fx.guestToken, fx.propertyID, firstStart, firstEnd)
		secondStart, secondEnd := stay(20, 2)
		second := s.createBooking(fx.guestToken, fx.propertyID, secondStart, secondEnd)

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL, nil, fx.guestToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var list response.BookingListResponse
		httptest.DecodeResponseBody(t, w.Body, &list)
		require.Len(t, list.Items, 2)
		require.Equal(t, second.ID, list.Items[0].ID)
		require.Equal(t, first.ID, list.Items[1].ID)
	})

	s.Run("limitとカーソルでページングできる", func() {
		t := s.T()
		fx := s.seedFixture()

		for i := range 3 {
			startDate, endDate := stay(7+i*5, 2)
			s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)
		}

		w := httptest.PerformRequest(t, s.Router, http.MethodGet, bookingsURL+"?limit=2", nil, fx.guestToken)
		require.Equal(t, http.StatusOK, w.Code)

		var page1 response.BookingListResponse
		httptest.DecodeResponseBody(t, w.Body, &page1)
		require.Len(t, page1.Items, 2)
		require.NotNil(t, page1.NextCursor)

		w2 := httptest.PerformRequest(t, s.Router, http.MethodGet,
			bookingsURL+"?limit=2&after="+*page1.NextCursor, nil, fx.guestToken)
		require.Equal(t, http.StatusOK, w2.Code)

		var page2 response.BookingListResponse
		httptest.DecodeResponseBody(t, w2.Body, &page2)
		require.Len(t, page2.Items, 1)
	})

	s.Run("ホストは物件の予約一覧を参照できる", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)

		url := fmt.Sprintf("/api/properties/%s/bookings", fx.propertyID)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, fx.hostToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var list response.BookingListResponse
		httptest.DecodeResponseBody(t, w.Body, &list)
		require.Len(t, list.Items, 1)

		// ホスト以外には見せない
		wGuest := httptest.PerformRequest(t, s.Router, http.MethodGet, url, nil, fx.guestToken)
		require.Equal(t, http.StatusForbidden, wGuest.Code)
	})
}

func (s *bookingSuite) TestUpdateBookingDates() {
	s.Run("pending予約は日程変更で現行料金に再価格付けされる", func() {
		t := s.T()
		fx := s.seedFixture()

		createdStart, createdEnd := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, createdStart, createdEnd)
		require.Equal(t, int64(45000), created.TotalPriceCents)

		// 料金改定後の日程変更は新料金で計算される
		_, err := s.DB.Exec(t.Context(),
			"UPDATE properties SET nightly_rate_cents = 20000 WHERE id = $1", fx.propertyID)
		require.NoError(t, err)

		startDate, endDate := stay(30, 4)
		url := fmt.Sprintf("%s/%s/dates", bookingsURL, created.ID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, url,
			request.UpdateBookingDatesRequest{StartDate: startDate, EndDate: endDate}, fx.guestToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var updated response.BookingResponse
		httptest.DecodeResponseBody(t, w.Body, &updated)
		require.Equal(t, startDate, updated.StartDate)
		require.Equal(t, int64(4*20000), updated.TotalPriceCents)
	})

	s.Run("自分自身の元日程とは衝突しない", func() {
		t := s.T()
		fx := s.seedFixture()

		createdStart, createdEnd := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, createdStart, createdEnd)

		// 元の期間と重なる期間への変更
		startDate, endDate := stay(8, 3)
		url := fmt.Sprintf("%s/%s/dates", bookingsURL, created.ID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, url,
			request.UpdateBookingDatesRequest{StartDate: startDate, EndDate: endDate}, fx.guestToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("他予約と重複する日程への変更は409", func() {
		t := s.T()
		fx := s.seedFixture()

		otherStart, otherEnd := stay(20, 3)
		s.createBooking(fx.guestToken, fx.propertyID, otherStart, otherEnd)
		createdStart, createdEnd := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, createdStart, createdEnd)

		startDate, endDate := stay(21, 2)
		url := fmt.Sprintf("%s/%s/dates", bookingsURL, created.ID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, url,
			request.UpdateBookingDatesRequest{StartDate: startDate, EndDate: endDate}, fx.guestToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("pending以外の予約は409", func() {
		t := s.T()
		fx := s.seedFixture()

		createdStart, createdEnd := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, createdStart, createdEnd)
		_, err := s.DB.Exec(t.Context(),
			"UPDATE bookings SET status = 'confirmed' WHERE id = $1", created.ID)
		require.NoError(t, err)

		startDate, endDate := stay(30, 3)
		url := fmt.Sprintf("%s/%s/dates", bookingsURL, created.ID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, url,
			request.UpdateBookingDatesRequest{StartDate: startDate, EndDate: endDate}, fx.guestToken)
		require.Equal(t, http.StatusConflict, w.Code, w.Body.String())
	})

	s.Run("ゲスト本人以外の変更は403", func() {
		t := s.T()
		fx := s.seedFixture()

		createdStart, createdEnd := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, createdStart, createdEnd)

		startDate, endDate := stay(30, 3)
		url := fmt.Sprintf("%s/%s/dates", bookingsURL, created.ID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPatch, url,
			request.UpdateBookingDatesRequest{StartDate: startDate, EndDate: endDate}, fx.hostToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})
}

func (s *bookingSuite) TestCancelBooking() {
	s.Run("ゲストは自分の予約をキャンセルできる", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)
		url := fmt.Sprintf("%s/%s/cancel", bookingsURL, created.ID)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, fx.guestToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())

		var res response.BookingResponse
		httptest.DecodeResponseBody(t, w.Body, &res)
		require.Equal(t, "canceled", res.Status)
	})

	s.Run("ホストは自物件の予約をキャンセルできる", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)
		url := fmt.Sprintf("%s/%s/cancel", bookingsURL, created.ID)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, fx.hostToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})

	s.Run("無関係なユーザーのキャンセルは403", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)
		strangerToken := authtest.CreateAndLogin(t, s.DB, s.Router, strangerEmail, "guest")

		url := fmt.Sprintf("%s/%s/cancel", bookingsURL, created.ID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, strangerToken)
		require.Equal(t, http.StatusForbidden, w.Code, w.Body.String())
	})

	s.Run("二重キャンセルは409", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)
		url := fmt.Sprintf("%s/%s/cancel", bookingsURL, created.ID)

		w1 := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, fx.guestToken)
		require.Equal(t, http.StatusOK, w1.Code)

		w2 := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, fx.guestToken)
		require.Equal(t, http.StatusConflict, w2.Code, w2.Body.String())
	})

	s.Run("同時キャンセルは1件だけ成功する", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)
		url := fmt.Sprintf("%s/%s/cancel", bookingsURL, created.ID)

		// ゲストとホストが同時にキャンセルした場合、ガード付きUPDATEを
		// 通過できるのは一方だけで、もう一方は409になる。
		tokens := []string{fx.guestToken, fx.hostToken}
		codes := make(chan int, len(tokens))
		var wg sync.WaitGroup
		for _, token := range tokens {
			wg.Add(1)
			go func() {
				defer wg.Done()
				w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, token)
				codes <- w.Code
			}()
		}
		wg.Wait()
		close(codes)

		counts := map[int]int{}
		for code := range codes {
			counts[code]++
		}
		require.Equal(t, 1, counts[http.StatusOK], "status counts: %v", counts)
		require.Equal(t, 1, counts[http.StatusConflict], "status counts: %v", counts)
	})

	s.Run("confirmed予約もキャンセルできる", func() {
		t := s.T()
		fx := s.seedFixture()

		startDate, endDate := stay(7, 3)
		created := s.createBooking(fx.guestToken, fx.propertyID, startDate, endDate)
		_, err := s.DB.Exec(t.Context(),
			"UPDATE bookings SET status = 'confirmed' WHERE id = $1", created.ID)
		require.NoError(t, err)

		url := fmt.Sprintf("%s/%s/cancel", bookingsURL, created.ID)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, url, nil, fx.guestToken)
		require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	})
}
