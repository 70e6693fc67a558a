package core

import (
	"errors"
	"testing"

	"github.com/smartystreets/assertions/should"
	"github.com/smartystreets/gunit"

	"github.com/xiaobai01111/SSMT4-Linux/contracts"
)

func TestCdnSelectionFixture(t *testing.T) {
	gunit.Run(new(CdnSelectionFixture), t)
}

type CdnSelectionFixture struct {
	*gunit.Fixture
}

func (this *CdnSelectionFixture) TestHighestPriorityEligibleNodeWins() {
	nodes := []contracts.CdnNode{
		{URL: "https://cdn-1/", P: 1, K1: 1, K2: 1},
		{URL: "https://cdn-5/", P: 5, K1: 1, K2: 1},
		{URL: "https://cdn-9/", P: 9, K1: 0, K2: 1},
	}

	chosen, err := SelectCdn(nodes)

	this.So(err, should.BeNil)
	this.So(chosen, should.Equal, "https://cdn-5/")
}

func (this *CdnSelectionFixture) TestBothFlagsRequiredForEligibility() {
	nodes := []contracts.CdnNode{
		{URL: "https://cdn-a/", P: 3, K1: 1, K2: 0},
		{URL: "https://cdn-b/", P: 2, K1: 0, K2: 0},
		{URL: "https://cdn-c/", P: 1, K1: 1, K2: 1},
	}

	chosen, err := SelectCdn(nodes)

	this.So(err, should.BeNil)
	this.So(chosen, should.Equal, "https://cdn-c/")
}

func (this *CdnSelectionFixture) TestNoEligibleNodes() {
	nodes := []contracts.CdnNode{
		{URL: "https://cdn-a/", P: 9, K1: 0, K2: 1},
		{URL: "https://cdn-b/", P: 8, K1: 1, K2: 0},
	}

	chosen, err := SelectCdn(nodes)

	this.So(errors.Is(err, contracts.ErrNoEligibleCdn), should.BeTrue)
	this.So(chosen, should.Equal, "")
}

func (this *CdnSelectionFixture) TestEmptyListIsIneligible() {
	chosen, err := SelectCdn(nil)

	this.So(errors.Is(err, contracts.ErrNoEligibleCdn), should.BeTrue)
	this.So(chosen, should.Equal, "")
}

func (this *CdnSelectionFixture) TestFirstOfEqualMaximumPrioritiesWins() {
	nodes := []contracts.CdnNode{
		{URL: "https://cdn-first/", P: 7, K1: 1, K2: 1},
		{URL: "https://cdn-second/", P: 7, K1: 1, K2: 1},
	}

	chosen, err := SelectCdn(nodes)

	this.So(err, should.BeNil)
	this.So(chosen, should.Equal, "https://cdn-first/")
}
