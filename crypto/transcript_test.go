package crypto

import "testing"

func TestTranscriptChallengeDeterministic(t *testing.T) {
	build := func() *Transcript {
		tr := NewTranscript(domainRangeProof)
		tr.AppendMessage("label", []byte("payload"))
		tr.AppendScalar("s", ScalarFromUint64(9))
		tr.AppendPoint("p", ScalarBaseMult(ScalarFromUint64(9)))
		return tr
	}
	a := build().ChallengeScalar("challenge")
	b := build().ChallengeScalar("challenge")
	if !a.Equal(b) {
		t.Errorf("identical transcripts should derive identical challenges")
	}
}

func TestTranscriptChallengeDependsOnMessages(t *testing.T) {
	tr1 := NewTranscript(domainRangeProof)
	tr1.AppendMessage("label", []byte("one"))

	tr2 := NewTranscript(domainRangeProof)
	tr2.AppendMessage("label", []byte("two"))

	if tr1.ChallengeScalar("c").Equal(tr2.ChallengeScalar("c")) {
		t.Errorf("different mixed messages should derive different challenges")
	}
}

func TestTranscriptDomainSeparation(t *testing.T) {
	tr1 := NewTranscript(domainRangeProof)
	tr1.AppendMessage("label", []byte("same"))

	tr2 := NewTranscript(domainRingSignature)
	tr2.AppendMessage("label", []byte("same"))

	if tr1.ChallengeScalar("c").Equal(tr2.ChallengeScalar("c")) {
		t.Errorf("transcripts with different domain tags should never collide")
	}
}

func TestTranscriptCloneIndependence(t *testing.T) {
	base := NewTranscript(domainRingSignature)
	base.AppendMessage("shared", []byte("prefix"))

	clone1 := base.Clone()
	clone1.AppendMessage("branch", []byte("a"))

	clone2 := base.Clone()
	clone2.AppendMessage("branch", []byte("b"))

	if clone1.ChallengeScalar("c").Equal(clone2.ChallengeScalar("c")) {
		t.Errorf("independent clones diverging after the fork point should not collide")
	}
}

func TestChallengeScalarAdvancesState(t *testing.T) {
	tr := NewTranscript(domainRangeProof)
	tr.AppendMessage("label", []byte("payload"))
	first := tr.ChallengeScalar("c")
	second := tr.ChallengeScalar("c")
	if first.Equal(second) {
		t.Errorf("successive ChallengeScalar calls should advance the sponge and yield independent output")
	}
}
