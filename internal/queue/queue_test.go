package queue

import "testing"

func TestSubjectFormat(t *testing.T) {
	if got := subject(StageDownload); got != "PIPELINE.download" {
		t.Fatalf("subject() = %q", got)
	}
}

func TestMsgIDStableForSameKey(t *testing.T) {
	a := msgID(Job{Stage: StageExtract, RecordID: "abc"})
	b := msgID(Job{Stage: StageExtract, RecordID: "abc"})
	if a != b {
		t.Fatalf("msgID not stable: %q != %q", a, b)
	}
	c := msgID(Job{Stage: StageExtract, RecordID: "xyz"})
	if a == c {
		t.Fatalf("msgID collided across different record ids")
	}
}

func TestNextStageChain(t *testing.T) {
	next, ok := nextStage(StageDownload)
	if !ok || next != StageExtract {
		t.Fatalf("download should chain to extract, got %q ok=%v", next, ok)
	}
	next, ok = nextStage(StageExtract)
	if !ok || next != StageEnrich {
		t.Fatalf("extract should chain to enrich, got %q ok=%v", next, ok)
	}
	if _, ok := nextStage(StageEnrich); ok {
		t.Fatalf("enrich should have no successor")
	}
}

func TestDecodeRoundTrip(t *testing.T) {
	job := Job{Stage: StageEnrich, RecordID: "rec-1", Force: true}
	data := []byte(`{"stage":"enrich","record_id":"rec-1","force":true}`)
	got, err := Decode(data)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if got != job {
		t.Fatalf("decode mismatch: got %+v want %+v", got, job)
	}
}
