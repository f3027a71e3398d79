// Package test holds helpers for exercising controllers over HTTP.
package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"

	"github.com/opencluster/framework-job-scheduler/api/controllers"
	"github.com/opencluster/framework-job-scheduler/router"
)

type ControllerTestUtils struct {
	controllers []controllers.Controller
}

func New(testControllers ...controllers.Controller) ControllerTestUtils {
	return ControllerTestUtils{
		controllers: testControllers,
	}
}

// ExecuteRequest Helper method to issue a http request
func (ctrl *ControllerTestUtils) ExecuteRequest(method, path string) <-chan *http.Response {
	return ctrl.ExecuteRequestWithBody(method, path, nil, nil)
}

// ExecuteRequestWithBody Helper method to issue a http request with a JSON body
func (ctrl *ControllerTestUtils) ExecuteRequestWithBody(method, path string, headers map[string]string, body interface{}) <-chan *http.Response {
	responseChan := make(chan *http.Response)

	go func() {
		var reader io.Reader

		if body != nil {
			switch payload := body.(type) {
			case []byte:
				reader = bytes.NewReader(payload)
			default:
				encoded, _ := json.Marshal(body)
				reader = bytes.NewReader(encoded)
			}
		}

		server := httptest.NewServer(router.NewServer(ctrl.controllers...))
		defer server.Close()
		request, _ := http.NewRequest(method, buildUrlFromServer(server, path), reader)
		for name, value := range headers {
			request.Header.Set(name, value)
		}
		response, _ := http.DefaultClient.Do(request)
		responseChan <- response
		close(responseChan)
	}()

	return responseChan
}

// GetResponseBody Gets response payload as type
func GetResponseBody(response *http.Response, target interface{}) error {
	body, _ := io.ReadAll(response.Body)

	return json.Unmarshal(body, target)
}

func buildUrlFromServer(server *httptest.Server, path string) string {
	serverUrl, _ := url.Parse(server.URL)
	serverUrl.Path = path
	return serverUrl.String()
}

// RequestContextMatcher matches any context.Context argument.
type RequestContextMatcher struct {
}

func (c RequestContextMatcher) Matches(x interface{}) bool {
	_, ok := x.(context.Context)
	return ok
}

func (c RequestContextMatcher) String() string {
	return "is a request context"
}
