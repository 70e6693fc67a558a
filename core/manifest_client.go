package core

import (
	"bytes"
	"compress/gzip"
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog"
	"golang.org/x/text/encoding/simplifiedchinese"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

const manifestUserAgent = "Mozilla/5.0"

// ManifestClient fetches remote JSON documents. Bodies may arrive
// gzip-encoded and, for legacy origins, in GBK rather than UTF-8. Every
// failure is non-fatal to the caller and surfaces as a *contracts.FetchError.
type ManifestClient struct {
	client contracts.HTTPClient
	logger zerolog.Logger
}

func NewManifestClient(client contracts.HTTPClient, logger zerolog.Logger) *ManifestClient {
	return &ManifestClient{client: client, logger: logger}
}

// Fetch retrieves address and decodes the JSON body into document.
func (this *ManifestClient) Fetch(address string, document interface{}) error {
	body, err := this.fetchBody(address)
	if err != nil {
		return err
	}
	err = json.Unmarshal(body, document)
	if err != nil {
		this.logger.Error().Str("url", address).Err(err).Msg("failed to decode JSON response")
		return &contracts.FetchError{URL: address, Failure: contracts.FetchDecodeFailure, Err: err}
	}
	return nil
}

func (this *ManifestClient) fetchBody(address string) ([]byte, error) {
	request, err := http.NewRequest(http.MethodGet, address, nil)
	if err != nil {
		return nil, &contracts.FetchError{URL: address, Failure: contracts.FetchTransportFailure, Err: err}
	}
	request.Header.Set("User-Agent", manifestUserAgent)
	request.Header.Set("Accept-Encoding", "gzip")

	response, err := this.client.Do(request)
	if err != nil {
		this.logger.Error().Str("url", address).Err(err).Msg("manifest fetch failed")
		return nil, &contracts.FetchError{URL: address, Failure: contracts.FetchTransportFailure, Err: err}
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode != http.StatusOK {
		this.logger.Error().Str("url", address).Int("status", response.StatusCode).Msg("unexpected HTTP status")
		return nil, &contracts.FetchError{URL: address, Failure: contracts.FetchBadStatus, Status: response.StatusCode}
	}

	body, err := io.ReadAll(response.Body)
	if err != nil {
		return nil, &contracts.FetchError{URL: address, Failure: contracts.FetchTransportFailure, Err: err}
	}

	if strings.Contains(strings.ToLower(response.Header.Get("Content-Encoding")), "gzip") {
		body, err = gunzip(body)
		if err != nil {
			this.logger.Error().Str("url", address).Err(err).Msg("gzip decompression error")
			return nil, &contracts.FetchError{URL: address, Failure: contracts.FetchDecodeFailure, Err: err}
		}
	}

	if !utf8.Valid(body) {
		decoded, err := simplifiedchinese.GBK.NewDecoder().Bytes(body)
		if err != nil {
			this.logger.Error().Str("url", address).Err(err).Msg("failed to decode legacy-encoded response")
			return nil, &contracts.FetchError{URL: address, Failure: contracts.FetchDecodeFailure, Err: err}
		}
		body = decoded
	}

	return body, nil
}

func gunzip(compressed []byte) ([]byte, error) {
	reader, err := gzip.NewReader(bytes.NewReader(compressed))
	if err != nil {
		return nil, err
	}
	defer func() { _ = reader.Close() }()
	return io.ReadAll(reader)
}
