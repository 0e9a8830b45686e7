package main

import (
	"encoding/json"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"easel/internal/testsupport"
)

var savedDraftID = regexp.MustCompile(`Saved draft (\S+)`)

func saveDraft(t *testing.T, env *cliTestEnv, args ...string) string {
	t.Helper()
	out, _, err := runCLI(t, append([]string{"drafts", "save"}, args...), env.configPath)
	if err != nil {
		t.Fatalf("drafts save: %v", err)
	}
	match := savedDraftID.FindStringSubmatch(out)
	if match == nil {
		t.Fatalf("save output missing draft id:\n%s", out)
	}
	return match[1]
}

func TestDraftsSaveListShowDelete(t *testing.T) {
	env := setupCLITestEnv(t)

	id := saveDraft(t, env, "--name", "Commission inquiry", "--field", "client=Avery", "--field", "size=24x36")

	out, _, err := runCLI(t, []string{"drafts", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("drafts list: %v", err)
	}
	requireContains(t, out, "Commission inquiry")
	requireContains(t, out, id)

	out, _, err = runCLI(t, []string{"drafts", "restore", id}, env.configPath)
	if err != nil {
		t.Fatalf("drafts restore: %v", err)
	}
	var payload draftPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode show output: %v\n%s", err, out)
	}
	if payload.Fields["client"] != "Avery" || payload.Fields["size"] != "24x36" {
		t.Fatalf("unexpected payload %+v", payload)
	}

	if _, _, err := runCLI(t, []string{"drafts", "delete", id}, env.configPath); err != nil {
		t.Fatalf("drafts delete: %v", err)
	}
	if _, _, err := runCLI(t, []string{"drafts", "restore", id}, env.configPath); err == nil {
		t.Fatal("expected error showing deleted draft")
	}
}

func TestDraftsUpdateInPlace(t *testing.T) {
	env := setupCLITestEnv(t)

	id := saveDraft(t, env, "--name", "First", "--field", "status=draft")
	updated := saveDraft(t, env, "--name", "Second", "--field", "status=final", "--id", id)
	if updated != id {
		t.Fatalf("update created new id %q, want %q", updated, id)
	}

	out, _, err := runCLI(t, []string{"drafts", "list", "--json"}, env.configPath)
	if err != nil {
		t.Fatalf("drafts list: %v", err)
	}
	if strings.Count(out, `"id"`) != 1 {
		t.Fatalf("expected one draft after update:\n%s", out)
	}
	requireContains(t, out, "Second")
}

func TestDraftsScopeIsolation(t *testing.T) {
	env := setupCLITestEnv(t)

	saveDraft(t, env, "--scope", "contact", "--name", "Contact draft")
	saveDraft(t, env, "--scope", "commission", "--name", "Commission draft")

	out, _, err := runCLI(t, []string{"drafts", "list", "--scope", "contact"}, env.configPath)
	if err != nil {
		t.Fatalf("drafts list: %v", err)
	}
	requireContains(t, out, "Contact draft")
	if strings.Contains(out, "Commission draft") {
		t.Fatal("scope leaked drafts from another collection")
	}
}

func TestDraftsDefaultName(t *testing.T) {
	env := setupCLITestEnv(t)

	id := saveDraft(t, env, "--field", "note=untitled")
	out, _, err := runCLI(t, []string{"drafts", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("drafts list: %v", err)
	}
	requireContains(t, out, id)
	requireContains(t, out, "Draft 20")
}

func TestDraftsSaveAttachment(t *testing.T) {
	env := setupCLITestEnv(t)

	imagePath := filepath.Join(env.baseDir, "sketch.png")
	writeTestPNG(t, imagePath, 4, 4)

	id := saveDraft(t, env, "--name", "With attachment", "--attach", imagePath)

	out, _, err := runCLI(t, []string{"drafts", "restore", id}, env.configPath)
	if err != nil {
		t.Fatalf("drafts restore: %v", err)
	}
	var payload draftPayload
	if err := json.Unmarshal([]byte(out), &payload); err != nil {
		t.Fatalf("decode show output: %v", err)
	}
	if len(payload.Attachments) != 1 {
		t.Fatalf("expected one attachment, got %d", len(payload.Attachments))
	}
	attachment := payload.Attachments[0]
	if attachment.Name != "sketch.png" {
		t.Fatalf("attachment name = %q", attachment.Name)
	}
	if attachment.MIME() != "image/png" {
		t.Fatalf("attachment mime = %q", attachment.MIME())
	}
	if _, err := attachment.Bytes(); err != nil {
		t.Fatalf("attachment decode: %v", err)
	}
}

func TestDraftsFileBackend(t *testing.T) {
	env := setupCLITestEnv(t, testsupport.WithDraftsBackend("file"))

	id := saveDraft(t, env, "--name", "File backed")

	out, _, err := runCLI(t, []string{"drafts", "list"}, env.configPath)
	if err != nil {
		t.Fatalf("drafts list: %v", err)
	}
	requireContains(t, out, id)
}
