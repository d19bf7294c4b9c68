package maintenance

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func setupRouter(repo *MockRepository, up UpcomingChecker) *gin.Engine {
	gin.SetMode(gin.TestMode)
	h := NewHandler(NewService(repo, up))

	r := gin.New()
	r.POST("/admin/machines/:machineID/service", h.ServiceMachine)
	r.PUT("/admin/machines/:machineID/service-interval", h.UpdateServiceInterval)
	r.GET("/admin/machines/upcoming-service", h.GetUpcomingService)
	r.GET("/admin/tickets", h.GetServiceTickets)
	return r
}

func TestHandler_ServiceMachine_EmptyBody(t *testing.T) {
	repo := new(MockRepository)
	repo.On("MachineName", mock.Anything, 3).Return("Leg Press", nil)
	repo.On("ServiceMachine", mock.Anything, 3, "", (*int)(nil)).
		Return(&ServiceRecord{MachineID: 3}, int64(1), nil)
	router := setupRouter(repo, &stubUpcoming{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/admin/machines/3/service", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"ticketsClosed":1`)
	repo.AssertExpectations(t)
}

func TestHandler_UpdateServiceInterval_Invalid(t *testing.T) {
	router := setupRouter(new(MockRepository), &stubUpcoming{})

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPut, "/admin/machines/3/service-interval", bytes.NewBufferString(`{"serviceIntervalHours": -1}`))
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "positive number of hours")
}

func TestHandler_GetUpcomingService_RequiresGym(t *testing.T) {
	router := setupRouter(new(MockRepository), &stubUpcoming{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/machines/upcoming-service", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/machines/upcoming-service?gymId=x", nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandler_GetServiceTickets(t *testing.T) {
	repo := new(MockRepository)
	repo.On("ListTickets", mock.Anything, TicketFilter{Status: "open"}).Return([]Ticket{{ID: 1}, {ID: 2}}, nil)
	router := setupRouter(repo, &stubUpcoming{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/admin/tickets?status=open", nil))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"count":2`)
}
