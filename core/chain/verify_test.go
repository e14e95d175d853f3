package chain

import (
	"encoding/json"
	"testing"
	"time"

	"evidenceos/types/ids"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVerifyEmptyChain(t *testing.T) {
	report := Verify(NewLedger())
	assert.True(t, report.Valid)
	assert.Equal(t, 0, report.TotalNodes)
	assert.Empty(t, report.Errors)
}

func TestVerifySingleNodeIsGenesis(t *testing.T) {
	ledger := NewLedger()
	_, err := ledger.Append(testRecord("EVID-GEN", time.Now().UTC()))
	require.NoError(t, err)

	report := Verify(ledger)
	assert.True(t, report.Valid)
	assert.Equal(t, 1, report.TotalNodes)
	assert.Empty(t, report.Errors)
}

func TestVerifyDetectsForgedGenesisLink(t *testing.T) {
	ledger := NewLedger()
	_, err := ledger.Append(testRecord("EVID-GEN", time.Now().UTC()))
	require.NoError(t, err)
	_, err = ledger.Append(testRecord("EVID-1", time.Now().UTC()))
	require.NoError(t, err)

	ledger.All()[0].PreviousDigest = "deadbeef"

	report := Verify(ledger)
	assert.False(t, report.Valid)
	issues := issuesByCode(report)
	// The forged link trips the genesis check and the genesis node's own
	// record digest no longer matches.
	require.Len(t, issues[IssueGenesisPreviousDigest], 1)
	assert.Equal(t, "EVID-GEN", issues[IssueGenesisPreviousDigest][0].Node)
	require.Len(t, issues[IssueRecordDigest], 1)
	assert.Equal(t, "EVID-GEN", issues[IssueRecordDigest][0].Node)
}

func TestVerifyDetectsPayloadTampering(t *testing.T) {
	ledger := NewLedger()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ledger.Append(testRecord("EVID-A", base))
	ledger.Append(testRecord("EVID-B", base.Add(5*time.Minute)))
	ledger.Append(testRecord("EVID-C", base.Add(10*time.Minute)))

	require.True(t, Verify(ledger).Valid)

	// Flip one field in B's stored payload.
	ledger.All()[1].EvidenceData.Regulation["clause"] = "9.9"

	report := Verify(ledger)
	assert.False(t, report.Valid)
	assert.Equal(t, 3, report.TotalNodes)

	issues := issuesByCode(report)
	// Exactly one data-integrity error naming B; the stored data digest no
	// longer matches. No linkage error: the digest fields themselves are
	// untouched.
	require.Len(t, issues[IssueDataDigest], 1)
	assert.Equal(t, "EVID-B", issues[IssueDataDigest][0].Node)
	require.NotNil(t, issues[IssueDataDigest][0].Sequence)
	assert.Equal(t, uint64(1), *issues[IssueDataDigest][0].Sequence)
	assert.Empty(t, issues[IssueChainBroken])
	assert.Empty(t, issues[IssueRecordDigest])
}

func TestVerifyDetectsCorruptedRecordDigest(t *testing.T) {
	ledger := NewLedger()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ledger.Append(testRecord("EVID-A", base))
	ledger.Append(testRecord("EVID-B", base.Add(5*time.Minute)))
	ledger.Append(testRecord("EVID-C", base.Add(10*time.Minute)))

	// Corrupt B's record digest: B's own record-integrity check fails, and
	// C's recorded previous-link no longer matches.
	ledger.All()[1].RecordDigest = "0000000000000000"

	report := Verify(ledger)
	assert.False(t, report.Valid)

	issues := issuesByCode(report)
	require.Len(t, issues[IssueChainBroken], 1)
	assert.Equal(t, "EVID-C", issues[IssueChainBroken][0].Node)
	require.NotNil(t, issues[IssueChainBroken][0].Sequence)
	assert.Equal(t, uint64(2), *issues[IssueChainBroken][0].Sequence)
	assert.NotEmpty(t, issues[IssueChainBroken][0].Expected)
	assert.Equal(t, "0000000000000000", issues[IssueChainBroken][0].Actual)

	require.Len(t, issues[IssueRecordDigest], 1)
	assert.Equal(t, "EVID-B", issues[IssueRecordDigest][0].Node)
}

func TestVerifyAccumulatesAllErrors(t *testing.T) {
	ledger := NewLedger()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, id := range []string{"EVID-A", "EVID-B", "EVID-C", "EVID-D"} {
		ledger.Append(testRecord(id, base.Add(time.Duration(i)*time.Minute)))
	}

	// Corrupt two independent nodes; one corruption must not mask the other.
	nodes := ledger.All()
	nodes[1].EvidenceData.Detection["detected_by"] = "attacker"
	nodes[3].RecordDigest = "ffff"

	report := Verify(ledger)
	assert.False(t, report.Valid)

	named := map[string]bool{}
	for _, issue := range report.Errors {
		named[issue.Node+"/"+issue.Issue] = true
	}
	assert.True(t, named["EVID-B/"+IssueDataDigest])
	assert.True(t, named["EVID-D/"+IssueRecordDigest])
}

func TestVerifyAcceptsNonFloatIntegerPayloads(t *testing.T) {
	// Payload numbers round-trip through float64 when the record is copied
	// into the node. An integer above 2^53 is not exactly representable, so
	// the stored copy's bytes differ from the caller's; the data digest must
	// cover the stored copy or an untampered chain reads as tampered.
	ledger := NewLedger()
	rec := testRecord("EVID-BIG", time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
	rec.Detection["count"] = int64(9007199254740993)

	node, err := ledger.Append(rec)
	require.NoError(t, err)

	stored, err := node.EvidenceData.CanonicalBytes()
	require.NoError(t, err)
	assert.Equal(t, node.DataDigest, ids.NewDigest(stored).String())

	report := Verify(ledger)
	assert.True(t, report.Valid, "untampered ledger reported invalid: %+v", report.Errors)
}

func TestVerifyIsIdempotent(t *testing.T) {
	ledger := NewLedger()
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	ledger.Append(testRecord("EVID-A", base))
	ledger.Append(testRecord("EVID-B", base.Add(time.Minute)))
	ledger.All()[1].EvidenceData.Regulation["clause"] = "tampered"

	first, err := json.Marshal(Verify(ledger))
	require.NoError(t, err)
	second, err := json.Marshal(Verify(ledger))
	require.NoError(t, err)
	assert.Equal(t, first, second, "reports for an unchanged ledger must be byte-identical")
}

func issuesByCode(report *Report) map[string][]Issue {
	out := make(map[string][]Issue)
	for _, issue := range report.Errors {
		out[issue.Issue] = append(out[issue.Issue], issue)
	}
	return out
}
