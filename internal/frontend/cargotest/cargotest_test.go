package cargotest_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"drift/internal/ast"
	"drift/internal/codectx"
	"drift/internal/frontend"
	"drift/internal/frontend/cargotest"
	"drift/internal/ir"
	"drift/internal/source"
)

func buildTree(t *testing.T, input string) (*ast.Tree, *frontend.ParseError) {
	t.Helper()
	fe := cargotest.New()
	fs := source.NewFileSet()
	file := fs.Get(fs.AddVirtual("cargo.txt", []byte(input)))
	lx := fe.NewLexer(file, nil)
	toks := frontend.Collect(lx)
	if lerr := lx.Err(); lerr != nil {
		t.Fatalf("unexpected lex failure: %v", lerr)
	}
	return fe.Builder.Build(file, toks)
}

func resolveTree(tree *ast.Tree, provider codectx.Provider) []ir.Observation {
	return cargotest.New().Resolver.Resolve(context.Background(), tree, provider)
}

func nodesOfKind(tree *ast.Tree, kind ast.NodeKind) []*ast.Node {
	var out []*ast.Node
	tree.Walk(tree.Root, func(_ ast.NodeID, n *ast.Node) bool {
		if n.Kind == kind {
			out = append(out, n)
		}
		return true
	})
	return out
}

// makeAuthRun renders a full cargo run: 127 cases, one assertion failure
// with location and backtrace, one ignored case.
func makeAuthRun() string {
	var sb strings.Builder
	sb.WriteString("   Compiling auth v0.1.0 (/work/auth)\n")
	sb.WriteString("    Finished test profile [unoptimized + debuginfo] target(s) in 0.42s\n")
	sb.WriteString("     Running unittests src/lib.rs (target/debug/deps/auth-9f86d08)\n")
	sb.WriteString("\nrunning 127 tests\n")
	for i := 0; i < 125; i++ {
		fmt.Fprintf(&sb, "test tests::auth::case_%03d ... ok\n", i)
	}
	sb.WriteString("test tests::auth::test_auth_invalid_token ... FAILED\n")
	sb.WriteString("test tests::auth::test_legacy_header ... ignored\n")
	sb.WriteString("\nfailures:\n\n")
	sb.WriteString("---- tests::auth::test_auth_invalid_token stdout ----\n")
	sb.WriteString("thread 'tests::auth::test_auth_invalid_token' panicked at src/auth.rs:89:5:\n")
	sb.WriteString("assertion `left == right` failed\n")
	sb.WriteString("  left: 401\n")
	sb.WriteString(" right: 403\n")
	sb.WriteString("note: run with `RUST_BACKTRACE=1` environment variable to display a backtrace\n")
	sb.WriteString("stack backtrace:\n")
	sb.WriteString("   0: rust_begin_unwind\n")
	sb.WriteString("   1: core::panicking::panic_fmt\n")
	sb.WriteString("   2: core::panicking::assert_failed\n")
	sb.WriteString("   3: token_expired\n")
	sb.WriteString("   4: validate_token\n")
	sb.WriteString("   5: test_auth_invalid_token\n")
	sb.WriteString("\nfailures:\n    tests::auth::test_auth_invalid_token\n\n")
	sb.WriteString("test result: FAILED. 125 passed; 1 failed; 1 ignored; 0 measured; 0 filtered out; finished in 0.05s\n")
	return sb.String()
}

func TestBuildAuthRun(t *testing.T) {
	tree, perr := buildTree(t, makeAuthRun())
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}

	suites := nodesOfKind(tree, ast.NodeSuite)
	if len(suites) != 1 {
		t.Fatalf("got %d suites, want 1", len(suites))
	}
	suite := suites[0]
	for key, want := range map[string]string{
		"count": "127", "result": "fail", "passed": "125", "failed": "1", "ignored": "1",
	} {
		if got := suite.FieldOr(key, ""); got != want {
			t.Errorf("suite %s = %q, want %q", key, got, want)
		}
	}

	if n := tree.CountKind(ast.NodeCase); n != 127 {
		t.Errorf("got %d cases, want 127", n)
	}
	failed := 0
	for _, c := range nodesOfKind(tree, ast.NodeCase) {
		if c.FieldOr("status", "") == "fail" {
			failed++
			if name := c.FieldOr("name", ""); name != "tests::auth::test_auth_invalid_token" {
				t.Errorf("failing case name = %q", name)
			}
		}
	}
	if failed != 1 {
		t.Errorf("got %d failing cases, want 1", failed)
	}

	sections := nodesOfKind(tree, ast.NodeSection)
	if len(sections) != 1 {
		t.Fatalf("got %d sections, want 1", len(sections))
	}
	sec := sections[0]
	if name := sec.FieldOr("name", ""); name != "tests::auth::test_auth_invalid_token" {
		t.Errorf("section name = %q", name)
	}
	if f, l, c := sec.FieldOr("file", ""), sec.FieldOr("line", ""), sec.FieldOr("col", ""); f != "src/auth.rs" || l != "89" || c != "5" {
		t.Errorf("section location = %s:%s:%s", f, l, c)
	}

	asserts := nodesOfKind(tree, ast.NodeAssertion)
	if len(asserts) != 1 {
		t.Fatalf("got %d assertions, want 1", len(asserts))
	}
	a := asserts[0]
	if op := a.FieldOr("op", ""); op != "==" {
		t.Errorf("assertion op = %q", op)
	}
	if l, r := a.FieldOr("left", ""), a.FieldOr("right", ""); l != "401" || r != "403" {
		t.Errorf("assertion sides = left %q right %q", l, r)
	}

	frames := sec.FieldAll("frame")
	if len(frames) != 6 {
		t.Fatalf("got %d frames, want 6: %v", len(frames), frames)
	}
	if frames[0] != "test_auth_invalid_token" || frames[5] != "rust_begin_unwind" {
		t.Errorf("frames not outermost-first: %v", frames)
	}
}

func TestResolveAuthRun(t *testing.T) {
	tree, _ := buildTree(t, makeAuthRun())
	obs := resolveTree(tree, nil)

	if len(obs) != 1 {
		t.Fatalf("got %d observations, want 1: %+v", len(obs), obs)
	}
	o := obs[0]
	if o.Kind != ir.DevTest {
		t.Errorf("kind = %v, want test", o.Kind)
	}
	if o.ExpectedRaw != "403" || o.ActualRaw != "401" {
		t.Errorf("expected/actual = %q/%q, want 403/401", o.ExpectedRaw, o.ActualRaw)
	}
	wantLoc := ir.Location{File: "src/auth.rs", Line: 89, Col: 5}
	if o.Location != wantLoc {
		t.Errorf("location = %+v, want %+v", o.Location, wantLoc)
	}
	wantFrames := []string{"test_auth_invalid_token", "validate_token", "token_expired"}
	if len(o.Frames) != len(wantFrames) {
		t.Fatalf("frames = %v, want %v", o.Frames, wantFrames)
	}
	for i := range wantFrames {
		if o.Frames[i] != wantFrames[i] {
			t.Errorf("frame %d = %q, want %q", i, o.Frames[i], wantFrames[i])
		}
	}
	if o.Hint != "" || o.ProviderDegraded {
		t.Errorf("test observation should not touch the provider: %+v", o)
	}

	dev, ok, err := ir.NewCanonicalizer(ir.DefaultLimits()).Canonicalize(o)
	if err != nil || !ok {
		t.Fatalf("canonicalize: ok=%v err=%v", ok, err)
	}
	if dev.Confidence != 1.0 {
		t.Errorf("confidence = %v, want 1.0", dev.Confidence)
	}
}

var diagFixture = strings.Join([]string{
	"error[E0308]: mismatched types",
	"  --> src/auth.rs:42:19",
	"   |",
	"42 |     let token: u32 = \"abc\";",
	"   |                ---   ^^^^^ expected `u32`, found `&str`",
	"",
	"error[E0425]: cannot find function `get_user` in this scope",
	" --> src/api.rs:7:13",
	"  |",
	"7 |     let u = get_user(1);",
	"  |             ^^^^^^^^ not found in this scope",
	"",
	"warning: unused variable: `retries`",
	" --> src/api.rs:3:9",
	"",
	"error: aborting due to 1 previous error",
	"",
}, "\n")

func TestBuildDiagnostics(t *testing.T) {
	tree, perr := buildTree(t, diagFixture)
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}

	diags := nodesOfKind(tree, ast.NodeDiagnostic)
	if len(diags) != 4 {
		t.Fatalf("got %d diagnostics, want 4", len(diags))
	}

	d := diags[0]
	if code := d.FieldOr("code", ""); code != "E0308" {
		t.Errorf("code = %q", code)
	}
	if exp, fnd := d.FieldOr("expected", ""), d.FieldOr("found", ""); exp != "u32" || fnd != "&str" {
		t.Errorf("expected/found = %q/%q", exp, fnd)
	}
	if f, l, c := d.FieldOr("file", ""), d.FieldOr("line", ""), d.FieldOr("col", ""); f != "src/auth.rs" || l != "42" || c != "19" {
		t.Errorf("location = %s:%s:%s", f, l, c)
	}

	d = diags[1]
	if code := d.FieldOr("code", ""); code != "E0425" {
		t.Errorf("code = %q", code)
	}
	if msg := d.FieldOr("msg", ""); !strings.Contains(msg, "cannot find function `get_user`") {
		t.Errorf("msg = %q", msg)
	}

	d = diags[2]
	if sev := d.FieldOr("severity", ""); sev != "warning" {
		t.Errorf("severity = %q", sev)
	}
	if msg := d.FieldOr("msg", ""); msg != "unused variable: `retries`" {
		t.Errorf("msg = %q", msg)
	}

	if msg := diags[3].FieldOr("msg", ""); !strings.HasPrefix(msg, "aborting due to") {
		t.Errorf("msg = %q", msg)
	}
}

type stubProvider struct {
	rename codectx.Rename
	hasRen bool
	sym    codectx.Symbol
	hasSym bool
	fail   error
}

func (s *stubProvider) LookupSymbol(_ context.Context, _ string, _ ir.Location) (codectx.Symbol, bool, error) {
	if s.fail != nil {
		return codectx.Symbol{}, false, s.fail
	}
	return s.sym, s.hasSym, nil
}

func (s *stubProvider) FindRecentRename(_ context.Context, _ string) (codectx.Rename, bool, error) {
	if s.fail != nil {
		return codectx.Rename{}, false, s.fail
	}
	return s.rename, s.hasRen, nil
}

func TestResolveDiagnostics(t *testing.T) {
	tree, _ := buildTree(t, diagFixture)

	t.Run("rename hint", func(t *testing.T) {
		provider := &stubProvider{
			rename: codectx.Rename{
				OldName:  "get_user",
				NewName:  "fetch_user",
				Location: ir.Location{File: "src/api.rs", Line: 12},
			},
			hasRen: true,
		}
		obs := resolveTree(tree, provider)
		if len(obs) != 3 {
			t.Fatalf("got %d observations, want 3 (aborting summary skipped): %+v", len(obs), obs)
		}

		mismatch := obs[0]
		if mismatch.Kind != ir.DevType || mismatch.ExpectedRaw != "u32" || mismatch.ActualRaw != "&str" {
			t.Errorf("type mismatch observation = %+v", mismatch)
		}

		missing := obs[1]
		if missing.Kind != ir.DevType {
			t.Errorf("missing-name kind = %v, want type", missing.Kind)
		}
		if !strings.Contains(missing.Hint, "fetch_user") {
			t.Errorf("hint = %q, want rename mention", missing.Hint)
		}
		if missing.ProviderDegraded {
			t.Error("successful enrichment must not degrade")
		}

		warn := obs[2]
		if warn.Kind != ir.DevBuild {
			t.Errorf("warning kind = %v, want build", warn.Kind)
		}
		if !strings.HasPrefix(warn.ActualRaw, "warning: unused variable") {
			t.Errorf("warning actual = %q", warn.ActualRaw)
		}
	})

	t.Run("provider failure degrades", func(t *testing.T) {
		obs := resolveTree(tree, &stubProvider{fail: errors.New("index offline")})
		missing := obs[1]
		if !missing.ProviderDegraded {
			t.Error("failed provider must degrade the observation")
		}
		if missing.Hint != "" {
			t.Errorf("hint = %q, want none", missing.Hint)
		}
	})

	t.Run("no provider degrades", func(t *testing.T) {
		obs := resolveTree(tree, nil)
		if !obs[1].ProviderDegraded {
			t.Error("absent provider must degrade name enrichment")
		}
	})

	t.Run("declaration hint", func(t *testing.T) {
		provider := &stubProvider{
			sym: codectx.Symbol{
				Name:         "get_user",
				DeclaredType: "fn(u32) -> User",
				DeclaredAt:   ir.Location{File: "src/api.rs", Line: 12, Col: 4},
			},
			hasSym: true,
		}
		obs := resolveTree(tree, provider)
		if !strings.Contains(obs[1].Hint, "src/api.rs:12:4") {
			t.Errorf("hint = %q, want declaration site", obs[1].Hint)
		}
	})
}

func TestBuildTruncatedRun(t *testing.T) {
	input := "running 2 tests\ntest tests::a ... ok\ntest tests::b ... FAILED\n"
	tree, perr := buildTree(t, input)

	if perr == nil {
		t.Fatal("truncated run must report a parse error")
	}
	if !strings.Contains(perr.Reason, "result line") {
		t.Errorf("reason = %q", perr.Reason)
	}
	if perr.Partial != tree {
		t.Error("parse error must carry the partial tree")
	}
	if n := tree.CountKind(ast.NodeCase); n != 2 {
		t.Errorf("partial tree has %d cases, want 2", n)
	}

	obs := resolveTree(tree, nil)
	if len(obs) != 1 {
		t.Fatalf("got %d observations, want 1", len(obs))
	}
	if obs[0].ValueKind != ir.ValueStatus || obs[0].ActualRaw != "fail" {
		t.Errorf("observation = %+v", obs[0])
	}
	if len(obs[0].Frames) != 1 || obs[0].Frames[0] != "tests::b" {
		t.Errorf("frames = %v, want the case name", obs[0].Frames)
	}
}

func TestResolvePanicWithoutAssertion(t *testing.T) {
	input := strings.Join([]string{
		"running 1 test",
		"test tests::boom ... FAILED",
		"",
		"failures:",
		"",
		"---- tests::boom stdout ----",
		"thread 'tests::boom' panicked at src/lib.rs:12:40:",
		"called `Option::unwrap()` on a `None` value",
		"",
		"failures:",
		"    tests::boom",
		"",
		"test result: FAILED. 0 passed; 1 failed; 0 ignored; 0 measured; 0 filtered out; finished in 0.00s",
		"",
	}, "\n")

	tree, perr := buildTree(t, input)
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	obs := resolveTree(tree, nil)
	if len(obs) != 1 {
		t.Fatalf("got %d observations, want 1", len(obs))
	}
	o := obs[0]
	if o.Kind != ir.DevRuntime {
		t.Errorf("kind = %v, want runtime", o.Kind)
	}
	if !strings.Contains(o.ActualRaw, "Option::unwrap()") {
		t.Errorf("actual = %q", o.ActualRaw)
	}
	if o.ExpectedRaw != "" {
		t.Errorf("expected = %q, want empty", o.ExpectedRaw)
	}
	wantLoc := ir.Location{File: "src/lib.rs", Line: 12, Col: 40}
	if o.Location != wantLoc {
		t.Errorf("location = %+v, want %+v", o.Location, wantLoc)
	}
	if len(o.Frames) != 1 || o.Frames[0] != "tests::boom" {
		t.Errorf("frames = %v, want section name fallback", o.Frames)
	}
}

func TestResolveNotEqualAssertion(t *testing.T) {
	input := strings.Join([]string{
		"running 1 test",
		"test tests::ne ... FAILED",
		"",
		"failures:",
		"",
		"---- tests::ne stdout ----",
		"thread 'tests::ne' panicked at src/eq.rs:5:5:",
		"assertion `left != right` failed",
		"  left: 7",
		" right: 7",
		"",
		"failures:",
		"    tests::ne",
		"",
		"test result: FAILED. 0 passed; 1 failed; 0 ignored; 0 measured; 0 filtered out; finished in 0.01s",
		"",
	}, "\n")

	tree, _ := buildTree(t, input)
	obs := resolveTree(tree, nil)
	if len(obs) != 1 {
		t.Fatalf("got %d observations, want 1", len(obs))
	}
	if obs[0].ExpectedRaw != "not 7" || obs[0].ActualRaw != "7" {
		t.Errorf("expected/actual = %q/%q", obs[0].ExpectedRaw, obs[0].ActualRaw)
	}

	// the pair must survive canonicalization instead of cancelling out
	_, ok, err := ir.NewCanonicalizer(ir.DefaultLimits()).Canonicalize(obs[0])
	if err != nil || !ok {
		t.Fatalf("ok=%v err=%v", ok, err)
	}
}

func TestLexerRejectsBinary(t *testing.T) {
	fe := cargotest.New()
	fs := source.NewFileSet()
	content := append([]byte("running 1"), 0x00, 0xFF, 0x01, 0x02)
	file := fs.Get(fs.AddVirtual("blob.bin", content))

	lx := fe.NewLexer(file, nil)
	toks := frontend.Collect(lx)
	if len(toks) != 1 {
		t.Errorf("rejected capture must yield only EOF, got %d tokens", len(toks))
	}

	lerr := lx.Err()
	if lerr == nil {
		t.Fatal("binary input must fail the lex")
	}
	if lerr.Reason != "NUL byte" {
		t.Errorf("reason = %q", lerr.Reason)
	}
	if lerr.Pos.Offset != 9 {
		t.Errorf("offset = %d, want 9", lerr.Pos.Offset)
	}
	if lerr.Tool != cargotest.Tool {
		t.Errorf("tool = %q", lerr.Tool)
	}
}

func TestResolveAllPassing(t *testing.T) {
	input := strings.Join([]string{
		"running 2 tests",
		"test tests::a ... ok",
		"test tests::b ... ok",
		"",
		"test result: ok. 2 passed; 0 failed; 0 ignored; 0 measured; 0 filtered out; finished in 0.00s",
		"",
	}, "\n")

	tree, perr := buildTree(t, input)
	if perr != nil {
		t.Fatalf("unexpected parse error: %v", perr)
	}
	if obs := resolveTree(tree, nil); len(obs) != 0 {
		t.Errorf("all-passing run must yield no observations, got %+v", obs)
	}
}
