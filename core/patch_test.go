package core

import (
	"encoding/json"
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
	"github.com/xiaobai01111/SSMT4-Linux/fs"
)

func TestPatchEngineFixture(t *testing.T) {
	gunit.Run(new(PatchEngineFixture), t)
}

type PatchEngineFixture struct {
	*gunit.Fixture
	configs    []contracts.PatchConfig
	client     *FakeDocumentFetcher
	downloader *FakeDownloader
	tool       *FakePatchTool
	fileSystem *fs.InMemoryFileSystem
	progress   *ProgressAggregator
	states     *StateHolder
}

func (this *PatchEngineFixture) Setup() {
	this.configs = []contracts.PatchConfig{
		{
			Version:   "1.0.0",
			BaseURL:   "patch/1.0.0",
			IndexFile: "patch/1.0.0/index.json",
			Ext:       []string{"krdiff"},
		},
		{Version: "0.9.0"}, // no ext entries: full update only
	}
	this.fileSystem = fs.NewInMemoryFileSystem()
	this.client = NewFakeDocumentFetcher()
	this.downloader = NewFakeDownloader()
	this.downloader.files = this.fileSystem
	this.tool = &FakePatchTool{}
	this.progress = NewProgressAggregator()
	this.states = NewStateHolder(contracts.StateNeedUpdate)
}

func (this *PatchEngineFixture) engine() *PatchEngine {
	return NewPatchEngine(
		this.configs,
		"https://cdn.example.com/",
		"root",
		"root/game",
		this.client,
		this.downloader,
		this.tool,
		this.fileSystem,
		this.progress,
		this.states,
		zerolog.Nop(),
	)
}

func (this *PatchEngineFixture) serveIndex(resources string) {
	this.client.documents["https://cdn.example.com/patch/1.0.0/index.json"] = `{"resource": ` + resources + `}`
}

func (this *PatchEngineFixture) TestNotEligibleWithoutInstalledVersion() {
	_, err := this.engine().Eligible("")
	this.So(err, should.Equal, contracts.ErrPatchUnsupported)
}

func (this *PatchEngineFixture) TestNotEligibleWhenVersionHasNoPatchEntry() {
	_, err := this.engine().Eligible("0.5.0")
	this.So(err, should.Equal, contracts.ErrPatchUnsupported)
}

func (this *PatchEngineFixture) TestNotEligibleWhenExtListIsEmpty() {
	_, err := this.engine().Eligible("0.9.0")
	this.So(err, should.Equal, contracts.ErrPatchUnsupported)
}

func (this *PatchEngineFixture) TestEligibleVersionYieldsItsConfig() {
	config, err := this.engine().Eligible("1.0.0")
	this.So(err, should.BeNil)
	this.So(config.BaseURL, should.Equal, "patch/1.0.0")
}

func (this *PatchEngineFixture) TestRunStagesResourcesAndInvokesDiffApply() {
	this.serveIndex(`[
		{"dest": "Paks/carry.pak", "size": 4, "fromFolder": "zip/0.9.0"},
		{"dest": "game.krdiff", "size": 8}
	]`)

	err := this.engine().Run("1.0.0")

	this.So(err, should.BeNil)
	this.So(this.client.addresses, should.Resemble, []string{
		"https://cdn.example.com/patch/1.0.0/index.json",
	})
	this.So(this.downloader.Addresses(), should.Resemble, []string{
		"https://cdn.example.com/zip/0.9.0/Paks/carry.pak",
		"https://cdn.example.com/patch/1.0.0/game.krdiff",
	})
	this.So(this.downloader.calls[0].dest, should.Equal, "root/temp_folder/Paks/carry.pak")
	this.So(this.downloader.calls[1].dest, should.Equal, "root/game.krdiff")
	this.So(this.tool.applies, should.Resemble, [][3]string{
		{"root/game", "root/game.krdiff", "root/temp_folder"},
	})

	info := this.progress.Info(contracts.OperationPatch)
	this.So(info.TotalSize, should.Equal, 12)
	this.So(info.FinishedSize, should.Equal, 12)
	this.So(info.FinishedCount, should.Equal, 2)
}

func (this *PatchEngineFixture) TestRunWithoutDeltaPackageIsANoOp() {
	this.serveIndex(`[{"dest": "Paks/carry.pak", "size": 4, "fromFolder": "zip/0.9.0"}]`)

	err := this.engine().Run("1.0.0")

	this.So(err, should.BeNil)
	this.So(this.tool.applies, should.BeEmpty)
	this.So(this.states.Current(), should.Equal, contracts.StateNeedUpdate)
}

func (this *PatchEngineFixture) TestRunPropagatesIndexFetchFailure() {
	this.client.err = errors.New("cdn offline")

	err := this.engine().Run("1.0.0")

	this.So(err, should.Equal, this.client.err)
	this.So(this.downloader.calls, should.BeEmpty)
}

func (this *PatchEngineFixture) TestMergeReplacesCollidingLiveEntriesWholesale() {
	_ = this.fileSystem.WriteFile("root/game/Paks/old1.pak", []byte("old"))
	_ = this.fileSystem.WriteFile("root/game/Paks/old2.pak", []byte("old"))
	_ = this.fileSystem.WriteFile("root/game/notes.txt", []byte("keep"))
	this.serveIndex(`[{"dest": "game.krdiff", "size": 8}]`)
	this.tool.onApply = func(original, patch, output string) {
		_ = this.fileSystem.WriteFile(output+"/Paks/new.pak", []byte("new"))
	}

	err := this.engine().Run("1.0.0")

	this.So(err, should.BeNil)
	this.So(this.states.Current(), should.Equal, contracts.StateMerging)

	_, err = this.fileSystem.Stat("root/game/Paks/old1.pak")
	this.So(err, should.NotBeNil)
	content, _ := this.fileSystem.ReadFile("root/game/Paks/new.pak")
	this.So(string(content), should.Equal, "new")
	content, _ = this.fileSystem.ReadFile("root/game/notes.txt")
	this.So(string(content), should.Equal, "keep")
}

func (this *PatchEngineFixture) TestMergeReplacesLiveDirectoryWithPatchedFile() {
	_ = this.fileSystem.WriteFile("root/game/launcher/stale.bin", []byte("old"))
	this.serveIndex(`[{"dest": "game.krdiff", "size": 8}]`)
	this.tool.onApply = func(original, patch, output string) {
		_ = this.fileSystem.WriteFile(output+"/launcher", []byte("now a file"))
	}

	err := this.engine().Run("1.0.0")

	this.So(err, should.BeNil)
	info, statErr := this.fileSystem.Stat("root/game/launcher")
	this.So(statErr, should.BeNil)
	this.So(info.IsDir(), should.BeFalse)
}

func (this *PatchEngineFixture) TestRunDiscardsScratchTreeAndDeltaPackage() {
	this.serveIndex(`[{"dest": "game.krdiff", "size": 8}]`)
	this.tool.onApply = func(original, patch, output string) {
		_ = this.fileSystem.WriteFile(output+"/patched.pak", []byte("new"))
	}

	err := this.engine().Run("1.0.0")

	this.So(err, should.BeNil)
	_, err = this.fileSystem.Stat("root/temp_folder")
	this.So(err, should.NotBeNil)
	_, err = this.fileSystem.Stat("root/game.krdiff")
	this.So(err, should.NotBeNil)
}

func (this *PatchEngineFixture) TestDiffApplyFailureSkipsMergeAndReportsError() {
	_ = this.fileSystem.WriteFile("root/game/notes.txt", []byte("keep"))
	this.serveIndex(`[{"dest": "game.krdiff", "size": 8}]`)
	this.tool.err = errors.New("hpatchz exited 1")

	err := this.engine().Run("1.0.0")

	this.So(err, should.Equal, this.tool.err)
	content, _ := this.fileSystem.ReadFile("root/game/notes.txt")
	this.So(string(content), should.Equal, "keep")
}

////////////////////////////////////////

// FakeDocumentFetcher serves canned JSON documents keyed by address.
type FakeDocumentFetcher struct {
	addresses []string
	documents map[string]string
	err       error
}

func NewFakeDocumentFetcher() *FakeDocumentFetcher {
	return &FakeDocumentFetcher{documents: make(map[string]string)}
}

func (this *FakeDocumentFetcher) Fetch(address string, document interface{}) error {
	this.addresses = append(this.addresses, address)
	if this.err != nil {
		return this.err
	}
	raw, found := this.documents[address]
	if !found {
		return &contracts.FetchError{URL: address, Failure: contracts.FetchBadStatus, Status: 404}
	}
	return json.Unmarshal([]byte(raw), document)
}

type FakePatchTool struct {
	applies [][3]string
	onApply func(originalTree, patchFile, outputTree string)
	err     error
}

func (this *FakePatchTool) Apply(originalTree, patchFile, outputTree string) error {
	this.applies = append(this.applies, [3]string{originalTree, patchFile, outputTree})
	if this.err != nil {
		return this.err
	}
	if this.onApply != nil {
		this.onApply(originalTree, patchFile, outputTree)
	}
	return nil
}
