package fs

import (
	"errors"
	"io"
	"os"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"
)

func TestInMemoryFileSystemFixture(t *testing.T) {
	gunit.Run(new(InMemoryFileSystemFixture), t)
}

type InMemoryFileSystemFixture struct {
	*gunit.Fixture
	fileSystem *InMemoryFileSystem
}

func (this *InMemoryFileSystemFixture) Setup() {
	this.fileSystem = NewInMemoryFileSystem()
}

func (this *InMemoryFileSystemFixture) TestMissingPathsReportNotExist() {
	_, statErr := this.fileSystem.Stat("nope")
	_, openErr := this.fileSystem.Open("nope")
	_, readErr := this.fileSystem.ReadFile("nope")

	this.So(errors.Is(statErr, os.ErrNotExist), should.BeTrue)
	this.So(errors.Is(openErr, os.ErrNotExist), should.BeTrue)
	this.So(errors.Is(readErr, os.ErrNotExist), should.BeTrue)
}

func (this *InMemoryFileSystemFixture) TestWrittenContentComesBack() {
	_ = this.fileSystem.WriteFile("a/b.txt", []byte("hello"))

	reader, err := this.fileSystem.Open("a/b.txt")
	this.So(err, should.BeNil)
	content, _ := io.ReadAll(reader)
	this.So(string(content), should.Equal, "hello")

	info, err := this.fileSystem.Stat("a/b.txt")
	this.So(err, should.BeNil)
	this.So(info.Size(), should.Equal, 5)
	this.So(info.IsDir(), should.BeFalse)
}

func (this *InMemoryFileSystemFixture) TestParentDirectoriesExistImplicitly() {
	_ = this.fileSystem.WriteFile("a/b/c.txt", []byte("x"))

	info, err := this.fileSystem.Stat("a/b")
	this.So(err, should.BeNil)
	this.So(info.IsDir(), should.BeTrue)
}

func (this *InMemoryFileSystemFixture) TestCreateTruncatesAndAppendExtends() {
	_ = this.fileSystem.WriteFile("f", []byte("old"))

	writer, _ := this.fileSystem.Create("f")
	_, _ = writer.Write([]byte("new"))
	_ = writer.Close()
	content, _ := this.fileSystem.ReadFile("f")
	this.So(string(content), should.Equal, "new")

	writer, _ = this.fileSystem.Append("f")
	_, _ = writer.Write([]byte("+more"))
	_ = writer.Close()
	content, _ = this.fileSystem.ReadFile("f")
	this.So(string(content), should.Equal, "new+more")
}

func (this *InMemoryFileSystemFixture) TestRenameMovesAFile() {
	_ = this.fileSystem.WriteFile("old.txt", []byte("x"))

	err := this.fileSystem.Rename("old.txt", "new.txt")

	this.So(err, should.BeNil)
	_, err = this.fileSystem.Stat("old.txt")
	this.So(err, should.NotBeNil)
	content, _ := this.fileSystem.ReadFile("new.txt")
	this.So(string(content), should.Equal, "x")
}

func (this *InMemoryFileSystemFixture) TestRenameMovesADirectorySubtree() {
	_ = this.fileSystem.WriteFile("src/a.txt", []byte("a"))
	_ = this.fileSystem.WriteFile("src/deep/b.txt", []byte("b"))

	err := this.fileSystem.Rename("src", "dst")

	this.So(err, should.BeNil)
	content, _ := this.fileSystem.ReadFile("dst/deep/b.txt")
	this.So(string(content), should.Equal, "b")
	_, err = this.fileSystem.Stat("src")
	this.So(err, should.NotBeNil)
}

func (this *InMemoryFileSystemFixture) TestDeleteTreeRemovesEverythingBeneath() {
	_ = this.fileSystem.WriteFile("tree/a.txt", []byte("a"))
	_ = this.fileSystem.WriteFile("tree/deep/b.txt", []byte("b"))
	_ = this.fileSystem.WriteFile("other.txt", []byte("c"))

	err := this.fileSystem.DeleteTree("tree")

	this.So(err, should.BeNil)
	_, err = this.fileSystem.Stat("tree")
	this.So(err, should.NotBeNil)
	_, err = this.fileSystem.Stat("other.txt")
	this.So(err, should.BeNil)
}

func (this *InMemoryFileSystemFixture) TestListDirReturnsImmediateChildrenOnly() {
	_ = this.fileSystem.WriteFile("root/a.txt", []byte("a"))
	_ = this.fileSystem.WriteFile("root/sub/b.txt", []byte("b"))
	this.fileSystem.MkdirAll("root/empty")

	listing, err := this.fileSystem.ListDir("root")

	this.So(err, should.BeNil)
	var names []string
	for _, info := range listing {
		names = append(names, info.Path())
	}
	this.So(names, should.Resemble, []string{"root/a.txt", "root/empty", "root/sub"})
}

func (this *InMemoryFileSystemFixture) TestInjectedErrorsSurface() {
	boom := errors.New("boom")
	this.fileSystem.ErrOpen["f"] = boom
	this.fileSystem.ErrCreate["f"] = boom
	this.fileSystem.ErrRename["f"] = boom
	_ = this.fileSystem.WriteFile("f", []byte("x"))

	_, openErr := this.fileSystem.Open("f")
	_, createErr := this.fileSystem.Create("f")
	renameErr := this.fileSystem.Rename("f", "g")

	this.So(openErr, should.Equal, boom)
	this.So(createErr, should.Equal, boom)
	this.So(renameErr, should.Equal, boom)
}
