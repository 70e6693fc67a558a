package core

import (
	"bytes"
	"io"
	"net/http"
	"strconv"
)

// FakeHTTPClient replays scripted responses in order and records every
// request it sees. An exhausted script answers 404.
type FakeHTTPClient struct {
	requests  []*http.Request
	responses []*http.Response
	errors    []error
}

func (this *FakeHTTPClient) Respond(status int, header http.Header, body []byte) {
	if header == nil {
		header = make(http.Header)
	}
	this.responses = append(this.responses, &http.Response{
		StatusCode:    status,
		Header:        header,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	})
	this.errors = append(this.errors, nil)
}

func (this *FakeHTTPClient) RespondReader(status int, header http.Header, body io.Reader) {
	if header == nil {
		header = make(http.Header)
	}
	this.responses = append(this.responses, &http.Response{
		StatusCode: status,
		Header:     header,
		Body:       io.NopCloser(body),
	})
	this.errors = append(this.errors, nil)
}

func (this *FakeHTTPClient) RespondError(err error) {
	this.responses = append(this.responses, nil)
	this.errors = append(this.errors, err)
}

func (this *FakeHTTPClient) Do(request *http.Request) (*http.Response, error) {
	this.requests = append(this.requests, request)
	if len(this.responses) == 0 {
		return &http.Response{
			StatusCode: http.StatusNotFound,
			Header:     make(http.Header),
			Body:       io.NopCloser(bytes.NewReader(nil)),
		}, nil
	}
	response, err := this.responses[0], this.errors[0]
	this.responses, this.errors = this.responses[1:], this.errors[1:]
	return response, err
}

func (this *FakeHTTPClient) RequestCount() int { return len(this.requests) }

func (this *FakeHTTPClient) Request(index int) *http.Request { return this.requests[index] }

func (this *FakeHTTPClient) LastRequest() *http.Request {
	return this.requests[len(this.requests)-1]
}

func contentLengthHeader(length int) http.Header {
	header := make(http.Header)
	header.Set("Content-Length", strconv.Itoa(length))
	return header
}

// brokenReader yields its prefix and then a transport error.
type brokenReader struct {
	prefix []byte
	err    error
	used   bool
}

func (this *brokenReader) Read(p []byte) (int, error) {
	if this.used {
		return 0, this.err
	}
	this.used = true
	return copy(p, this.prefix), nil
}
