package server_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"scan_service/internal/domain"
	"scan_service/internal/domain/entity"
	"scan_service/internal/domain/value"
	service "scan_service/internal/domain/service/scan"
	"scan_service/internal/infrastructure/persistence"
	"scan_service/internal/server"
	"scan_service/pkg/errcodes"
	"scan_service/pkg/rest"
	"scan_service/pkg/tests"
)

func newTestClient(t *testing.T, repo service.ScanRepository) tests.APIClient {
	t.Helper()

	router := server.NewRouter(
		server.NewServer(server.NewScanServer(service.NewScanService(repo))),
		server.RouterOptions{LogFieldMaxLen: 1024},
	)

	httpServer := httptest.NewServer(router)
	t.Cleanup(httpServer.Close)

	return tests.NewAPIClient(httpServer.URL, httpServer.Client())
}

func postScans(t *testing.T, client tests.APIClient, requests ...rest.CreateScanRequest) []rest.Scan {
	t.Helper()

	created := make([]rest.Scan, 0, len(requests))

	for _, request := range requests {
		var scan rest.Scan

		resp, err := client.Post(context.Background(), "/scans", request, &scan, nil)
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, resp.StatusCode)

		created = append(created, scan)
	}

	return created
}

func createRequest(userName, carBrand string, scoreNumber int) rest.CreateScanRequest {
	return rest.CreateScanRequest{
		UserName:    userName,
		CarBrand:    carBrand,
		ScoreNumber: &scoreNumber,
	}
}

func TestScanServer_Scenario(t *testing.T) {
	rq := require.New(t)
	ctx := context.Background()

	client := newTestClient(t, persistence.NewMemoryScanRepository())

	created := postScans(t, client,
		createRequest("lode", "traktor", 1),
		createRequest("lode", "tesla", 2),
		createRequest("johnny", "traktor", 3),
		createRequest("michiel", "tesla", 4),
	)

	for _, scan := range created {
		rq.NotEmpty(scan.ID)
	}

	var byUser []rest.Scan

	resp, err := client.Get(ctx, "/scans/user/lode", &byUser, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(created[:2], byUser)

	var byCar []rest.Scan

	resp, err = client.Get(ctx, "/scans/tesla", &byCar, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal([]rest.Scan{created[1], created[3]}, byCar)

	resp, err = client.Delete(ctx, "/scans/user/michiel/car/tesla", nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	var all []rest.Scan

	resp, err = client.Get(ctx, "/scans", &all, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Len(all, 3)

	var errResponse rest.Error

	resp, err = client.Delete(ctx, "/scans/user/michiel/car/volvo", nil, &errResponse)
	rq.NoError(err)
	rq.Equal(http.StatusNotFound, resp.StatusCode)
	rq.Equal(rest.ErrorCode(errcodes.ScanNotFound), errResponse.Code)

	resp, err = client.Get(ctx, "/scans", &all, nil)
	rq.NoError(err)
	rq.Len(all, 3)

	score := 9

	var updated rest.Scan

	resp, err = client.Put(ctx, "/scans", rest.UpdateScanRequest{
		UserName:    "lode",
		CarBrand:    "traktor",
		ScoreNumber: &score,
	}, &updated, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(rest.Scan{ID: created[0].ID, UserName: "lode", CarBrand: "traktor", ScoreNumber: 9}, updated)

	resp, err = client.Get(ctx, "/scans", &all, nil)
	rq.NoError(err)
	rq.Len(all, 3)

	var got rest.Scan

	resp, err = client.Get(ctx, "/scans/user/lode/car/traktor", &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(updated, got)
}

func TestScanServer_Get(t *testing.T) {
	client := newTestClient(t, persistence.NewMemoryScanRepository())
	created := postScans(t, client,
		createRequest("Lode", " Audi A4 ", 5),
		createRequest("johnny", "lamborghini", 5),
	)

	testCases := []struct {
		name       string
		endpoint   string
		statusCode int
		want       rest.Scan
		wantCode   rest.ErrorCode
	}{
		{
			name:       "Existing pair",
			endpoint:   "/scans/user/johnny/car/lamborghini",
			statusCode: http.StatusOK,
			want:       created[1],
		},
		{
			name:       "Canonical form is stored and matched",
			endpoint:   "/scans/user/LODE/car/" + url.PathEscape("audi a4"),
			statusCode: http.StatusOK,
			want:       rest.Scan{ID: created[0].ID, UserName: "lode", CarBrand: "audi a4", ScoreNumber: 5},
		},
		{
			name:       "Missing pair",
			endpoint:   "/scans/user/johnny/car/audi",
			statusCode: http.StatusNotFound,
			wantCode:   rest.ErrorCode(errcodes.ScanNotFound),
		},
		{
			name:       "Blank user name",
			endpoint:   "/scans/user/%20/car/audi",
			statusCode: http.StatusBadRequest,
			wantCode:   rest.ErrorCode(errcodes.InvalidUserName),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			var (
				scan        rest.Scan
				errResponse rest.Error
			)

			resp, err := client.Get(context.Background(), tc.endpoint, &scan, &errResponse)
			rq.NoError(err)
			rq.Equal(tc.statusCode, resp.StatusCode)

			if tc.wantCode != "" {
				rq.Equal(tc.wantCode, errResponse.Code)
				rq.NotEmpty(errResponse.SupportID)

				return
			}

			rq.Equal(tc.want, scan)
		})
	}
}

func TestScanServer_EmptyLists(t *testing.T) {
	client := newTestClient(t, persistence.NewMemoryScanRepository())

	for _, endpoint := range []string{"/scans", "/scans/user/nobody", "/scans/volvo"} {
		t.Run(endpoint, func(t *testing.T) {
			rq := require.New(t)

			var raw any

			resp, err := client.Get(context.Background(), endpoint, &raw, nil)
			rq.NoError(err)
			rq.Equal(http.StatusOK, resp.StatusCode)
			rq.Equal([]any{}, raw)
		})
	}
}

func TestScanServer_Update(t *testing.T) {
	client := newTestClient(t, persistence.NewMemoryScanRepository())
	created := postScans(t, client, createRequest("lode", "traktor", 2))

	newCarBrand := "Volvo"

	testCases := []struct {
		name       string
		body       string
		statusCode int
		want       rest.Scan
		wantCode   rest.ErrorCode
	}{
		{
			name:       "Missing pair is not created",
			body:       `{"userName":"michiel","carBrand":"volvo","scoreNumber":1}`,
			statusCode: http.StatusNotFound,
			wantCode:   rest.ErrorCode(errcodes.ScanNotFound),
		},
		{
			name:       "Missing score number",
			body:       `{"userName":"lode","carBrand":"traktor"}`,
			statusCode: http.StatusBadRequest,
			wantCode:   rest.ErrorCode(errcodes.ValidationError),
		},
		{
			name:       "Malformed JSON",
			body:       `{"userName":`,
			statusCode: http.StatusBadRequest,
			wantCode:   rest.ErrorCode(errcodes.ValidationError),
		},
		{
			name:       "Score and car brand change, id stays",
			body:       `{"userName":"LODE","carBrand":"traktor","scoreNumber":7,"newCarBrand":"` + newCarBrand + `"}`,
			statusCode: http.StatusOK,
			want:       rest.Scan{ID: created[0].ID, UserName: "lode", CarBrand: "volvo", ScoreNumber: 7},
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			var (
				scan        rest.Scan
				errResponse rest.Error
			)

			resp, err := client.SendJSON(context.Background(), http.MethodPut, "/scans", tc.body, &scan, &errResponse)
			rq.NoError(err)
			rq.Equal(tc.statusCode, resp.StatusCode)

			if tc.wantCode != "" {
				rq.Equal(tc.wantCode, errResponse.Code)

				return
			}

			rq.Equal(tc.want, scan)
		})
	}

	var all []rest.Scan

	_, err := client.Get(context.Background(), "/scans", &all, nil)
	require.NoError(t, err)
	require.Len(t, all, 1)
}

func TestScanServer_Create(t *testing.T) {
	client := newTestClient(t, persistence.NewMemoryScanRepository())

	testCases := []struct {
		name       string
		body       string
		statusCode int
		wantCode   rest.ErrorCode
	}{
		{
			name:       "Valid",
			body:       `{"userName":"lode","carBrand":"traktor","scoreNumber":0}`,
			statusCode: http.StatusOK,
		},
		{
			name:       "Negative score is accepted",
			body:       `{"userName":"lode","carBrand":"tesla","scoreNumber":-3}`,
			statusCode: http.StatusOK,
		},
		{
			name:       "Score beyond 32 bits is accepted",
			body:       `{"userName":"lode","carBrand":"volvo","scoreNumber":3000000000}`,
			statusCode: http.StatusOK,
		},
		{
			name:       "Missing user name",
			body:       `{"carBrand":"traktor","scoreNumber":1}`,
			statusCode: http.StatusBadRequest,
			wantCode:   rest.ErrorCode(errcodes.ValidationError),
		},
		{
			name:       "Blank car brand",
			body:       `{"userName":"lode","carBrand":"   ","scoreNumber":1}`,
			statusCode: http.StatusBadRequest,
			wantCode:   rest.ErrorCode(errcodes.InvalidCarBrand),
		},
		{
			name:       "Score is not a number",
			body:       `{"userName":"lode","carBrand":"traktor","scoreNumber":"high"}`,
			statusCode: http.StatusBadRequest,
			wantCode:   rest.ErrorCode(errcodes.ValidationError),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			var (
				scan        rest.Scan
				errResponse rest.Error
			)

			resp, err := client.SendJSON(context.Background(), http.MethodPost, "/scans", tc.body, &scan, &errResponse)
			rq.NoError(err)
			rq.Equal(tc.statusCode, resp.StatusCode)

			if tc.wantCode != "" {
				rq.Equal(tc.wantCode, errResponse.Code)

				return
			}

			rq.NotEmpty(scan.ID)
		})
	}
}

func TestScanServer_CreateThenGet(t *testing.T) {
	rq := require.New(t)
	random := tests.NewRandomizer()
	client := newTestClient(t, persistence.NewMemoryScanRepository())

	created := postScans(t, client, createRequest(random.UserName(), random.CarBrand(), random.ScoreNumber()))[0]

	var got rest.Scan

	endpoint := "/scans/user/" + url.PathEscape(created.UserName) + "/car/" + url.PathEscape(created.CarBrand)

	resp, err := client.Get(context.Background(), endpoint, &got, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)
	rq.Equal(created, got)
}

func TestScanServer_EscapedPathParams(t *testing.T) {
	client := newTestClient(t, persistence.NewMemoryScanRepository())
	created := postScans(t, client,
		createRequest("a%41", "b%42", 1),
		createRequest("aa", "bb", 2),
		createRequest("x/y", "bb", 3),
	)

	testCases := []struct {
		name     string
		userName string
		carBrand string
		want     rest.Scan
	}{
		{
			name:     "Literal percent sequence",
			userName: "a%41",
			carBrand: "b%42",
			want:     created[0],
		},
		{
			name:     "Plain name next to a percent lookalike",
			userName: "aa",
			carBrand: "bb",
			want:     created[1],
		},
		{
			name:     "Escaped slash",
			userName: "x/y",
			carBrand: "bb",
			want:     created[2],
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)
			ctx := context.Background()

			var byUser []rest.Scan

			resp, err := client.Get(ctx, "/scans/user/"+url.PathEscape(tc.userName), &byUser, nil)
			rq.NoError(err)
			rq.Equal(http.StatusOK, resp.StatusCode)
			rq.Equal([]rest.Scan{tc.want}, byUser)

			var got rest.Scan

			endpoint := "/scans/user/" + url.PathEscape(tc.userName) + "/car/" + url.PathEscape(tc.carBrand)

			resp, err = client.Get(ctx, endpoint, &got, nil)
			rq.NoError(err)
			rq.Equal(http.StatusOK, resp.StatusCode)
			rq.Equal(tc.want, got)
		})
	}

	rq := require.New(t)

	resp, err := client.Delete(context.Background(), "/scans/user/"+url.PathEscape("a%41")+"/car/"+url.PathEscape("b%42"), nil, nil)
	rq.NoError(err)
	rq.Equal(http.StatusOK, resp.StatusCode)

	var all []rest.Scan

	_, err = client.Get(context.Background(), "/scans", &all, nil)
	rq.NoError(err)
	rq.Equal(created[1:], all)
}

var errConnRefused = errors.New("connection refused")

// unavailableRepository fails every call the way drivers report a lost
// connection.
type unavailableRepository struct{}

func (unavailableRepository) err() error {
	return domain.WrapError(errConnRefused, errcodes.StoreUnavailable, "failed to reach store")
}

func (r unavailableRepository) Insert(context.Context, *entity.Scan) error {
	return r.err()
}

func (r unavailableRepository) FindByUserName(context.Context, value.UserName) ([]entity.Scan, error) {
	return nil, r.err()
}

func (r unavailableRepository) FindByCarBrand(context.Context, value.CarBrand) ([]entity.Scan, error) {
	return nil, r.err()
}

func (r unavailableRepository) FindByUserNameAndCarBrand(
	context.Context,
	value.UserName,
	value.CarBrand,
) (entity.Scan, bool, error) {
	return entity.Scan{}, false, r.err()
}

func (r unavailableRepository) FindAll(context.Context) ([]entity.Scan, error) {
	return nil, r.err()
}

func (r unavailableRepository) Delete(context.Context, entity.Scan) error {
	return r.err()
}

func (r unavailableRepository) Count(context.Context) (int64, error) {
	return 0, r.err()
}

func TestScanServer_StoreUnavailable(t *testing.T) {
	client := newTestClient(t, unavailableRepository{})

	testCases := []struct {
		name     string
		method   string
		endpoint string
		body     string
	}{
		{name: "List", method: http.MethodGet, endpoint: "/scans"},
		{name: "Get", method: http.MethodGet, endpoint: "/scans/user/lode/car/traktor"},
		{name: "Delete", method: http.MethodDelete, endpoint: "/scans/user/lode/car/traktor"},
		{
			name:     "Create",
			method:   http.MethodPost,
			endpoint: "/scans",
			body:     `{"userName":"lode","carBrand":"traktor","scoreNumber":1}`,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rq := require.New(t)

			var errResponse rest.Error

			resp, err := client.SendJSON(context.Background(), tc.method, tc.endpoint, tc.body, nil, &errResponse)
			rq.NoError(err)
			rq.Equal(http.StatusServiceUnavailable, resp.StatusCode)
			rq.Equal(rest.ErrorCode(errcodes.StoreUnavailable), errResponse.Code)
			rq.NotContains(errResponse.Message, errConnRefused.Error())
		})
	}
}
