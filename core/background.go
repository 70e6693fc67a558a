package core

import (
	"path/filepath"
	"strings"

	"github.com/rs/zerolog"
)

// BackgroundConfig names the images the launcher UI shows. Defaults point at
// the bundled assets; a successful fetch swaps in the remote ones.
type BackgroundConfig struct {
	Background string
	Slogan     string
}

type backgroundDocument struct {
	FirstFrameImage string `json:"firstFrameImage"`
	Slogan          string `json:"slogan"`
}

type downloadIndexDocument struct {
	FunctionCode map[string]string `json:"functionCode"`
}

// BackgroundFetcher performs the one-off fetch of the launcher background
// and slogan images. Every failure silently keeps the bundled defaults; the
// launcher never blocks on decoration.
type BackgroundFetcher struct {
	client      documentFetcher
	downloader  Downloader
	infoURL     func(functionCode string) string
	resourceDir string
	logger      zerolog.Logger
}

func NewBackgroundFetcher(
	client documentFetcher,
	downloader Downloader,
	infoURL func(functionCode string) string,
	resourceDir string,
	logger zerolog.Logger,
) *BackgroundFetcher {
	return &BackgroundFetcher{
		client:      client,
		downloader:  downloader,
		infoURL:     infoURL,
		resourceDir: resourceDir,
		logger:      logger,
	}
}

func (this *BackgroundFetcher) Fetch(downloadAPI string) BackgroundConfig {
	config := BackgroundConfig{Background: "background.webp", Slogan: "slogan.png"}

	var index downloadIndexDocument
	if err := this.client.Fetch(downloadAPI, &index); err != nil {
		this.logger.Debug().Err(err).Msg("background info unavailable, keeping bundled assets")
		return config
	}
	functionCode, found := index.FunctionCode["background"]
	if !found {
		return config
	}

	var info backgroundDocument
	if err := this.client.Fetch(this.infoURL(functionCode), &info); err != nil {
		return config
	}

	backgroundName := lastURLSegment(info.FirstFrameImage)
	sloganName := lastURLSegment(info.Slogan)
	backgroundOK := this.downloader.Fetch(info.FirstFrameImage, filepath.Join(this.resourceDir, backgroundName), false, 0, nil)
	sloganOK := this.downloader.Fetch(info.Slogan, filepath.Join(this.resourceDir, sloganName), false, 0, nil)
	if backgroundOK && sloganOK {
		config.Background = backgroundName
		config.Slogan = sloganName
	}
	return config
}

func lastURLSegment(address string) string {
	if at := strings.LastIndexByte(address, '/'); at >= 0 {
		return address[at+1:]
	}
	return address
}
