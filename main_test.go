// Copyright (c) Elliot Nunn
// Licensed under the MIT license

package main

import (
	"bytes"
	"compress/gzip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestArchiveName(t *testing.T) {
	cases := []struct {
		names []string
		wd    string
		want  string
	}{
		{[]string{"notes.txt"}, "/home/me", "notes.z"},
		{[]string{"dir/photo.tar.gz"}, "/home/me", "photo.tar.z"},
		{[]string{"README"}, "/home/me", "README.z"},
		{[]string{".profile"}, "/home/me", "archive.z"},
		{[]string{"a", "b"}, "/home/me/project", "project.z"},
		{[]string{"a", "b"}, "/", "archive.z"},
	}
	for _, c := range cases {
		if got := archiveName(c.names, c.wd); got != c.want {
			t.Errorf("archiveName(%q, %q) = %q, want %q", c.names, c.wd, got, c.want)
		}
	}
}

func TestExtractDir(t *testing.T) {
	for in, want := range map[string]string{
		"backup.z":        "backup",
		"dir/backup.z":    "dir/backup",
		"backup.z.gz":     "backup",
		"backup":          "backup.d",
		"dir/backup.z.xz": "dir/backup",
	} {
		if got := extractDir(in); got != want {
			t.Errorf("extractDir(%q) = %q, want %q", in, got, want)
		}
	}
}

func workspace(t *testing.T) map[string]string {
	t.Helper()
	files := map[string]string{
		"a.txt":     strings.Repeat("the quick brown fox ", 400),
		"sub/b.bin": "\x00\x01\x02\xff",
		"empty":     "",
	}
	dir := t.TempDir()
	for name, data := range files {
		p := filepath.Join(dir, filepath.FromSlash(name))
		os.MkdirAll(filepath.Dir(p), 0o755)
		if err := os.WriteFile(p, []byte(data), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	t.Chdir(dir)
	return files
}

func huffarc(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func checkTree(t *testing.T, dir string, files map[string]string) {
	t.Helper()
	for name, want := range files {
		got, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(name)))
		if err != nil {
			t.Error(err)
			continue
		}
		if string(got) != want {
			t.Errorf("%s: got %d bytes, want %d", name, len(got), len(want))
		}
	}
}

func TestCreateExtract(t *testing.T) {
	files := workspace(t)
	for _, password := range []string{"", "secret"} {
		t.Run(password, func(t *testing.T) {
			if code, _, stderr := huffarc(t, "create", "-f", "-p", password, "-o", "out.z", "a.txt", "sub/b.bin", "empty"); code != 0 {
				t.Fatalf("create: %d %s", code, stderr)
			}
			dest := "x" + password
			if code, _, stderr := huffarc(t, "extract", "-p", password, "-o", dest, "out.z"); code != 0 {
				t.Fatalf("extract: %d %s", code, stderr)
			}
			checkTree(t, dest, files)
		})
	}
}

func TestDefaultNames(t *testing.T) {
	workspace(t)
	if code, _, stderr := huffarc(t, "create", "a.txt"); code != 0 {
		t.Fatalf("create: %s", stderr)
	}
	if _, err := os.Stat("a.z"); err != nil {
		t.Fatal(err)
	}
	if code, _, stderr := huffarc(t, "extract", "a.z"); code != 0 {
		t.Fatalf("extract: %s", stderr)
	}
	if _, err := os.Stat(filepath.Join("a", "a.txt")); err != nil {
		t.Error(err)
	}
}

func TestRefuseOverwrite(t *testing.T) {
	workspace(t)
	if code, _, _ := huffarc(t, "create", "-o", "out.z", "a.txt"); code != 0 {
		t.Fatal("first create failed")
	}
	code, _, stderr := huffarc(t, "create", "-o", "out.z", "a.txt")
	if code != 1 || !strings.Contains(stderr, "already exists") {
		t.Errorf("second create: %d %q", code, stderr)
	}
	if code, _, _ := huffarc(t, "create", "-f", "-o", "out.z", "a.txt"); code != 0 {
		t.Error("create -f failed")
	}
}

func TestWrongPassword(t *testing.T) {
	workspace(t)
	if code, _, _ := huffarc(t, "create", "-p", "secret", "-o", "out.z", "a.txt"); code != 0 {
		t.Fatal("create failed")
	}
	code, _, stderr := huffarc(t, "extract", "-p", "wrong", "out.z")
	if code != 1 || stderr != "huffarc: out.z: incorrect password or corrupted file\n" {
		t.Errorf("got %d %q", code, stderr)
	}
	if _, err := os.Stat("out"); err == nil {
		t.Error("output directory created for a failed extraction")
	}
}

func TestGzipWrapped(t *testing.T) {
	files := workspace(t)
	if code, _, _ := huffarc(t, "create", "-o", "out.z", "a.txt", "sub/b.bin", "empty"); code != 0 {
		t.Fatal("create failed")
	}
	p, err := os.ReadFile("out.z")
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	zw.Write(p)
	zw.Close()
	os.WriteFile("out.z.gz", buf.Bytes(), 0o644)

	if code, _, stderr := huffarc(t, "extract", "out.z.gz"); code != 0 {
		t.Fatalf("extract: %s", stderr)
	}
	checkTree(t, "out", files)
}

func TestOnly(t *testing.T) {
	workspace(t)
	huffarc(t, "create", "-o", "out.z", "a.txt", "sub/b.bin")
	if code, _, stderr := huffarc(t, "extract", "-only", "sub/*", "-o", "x", "out.z"); code != 0 {
		t.Fatalf("extract: %s", stderr)
	}
	if _, err := os.Stat(filepath.Join("x", "sub", "b.bin")); err != nil {
		t.Error(err)
	}
	if _, err := os.Stat(filepath.Join("x", "a.txt")); err == nil {
		t.Error("a.txt extracted despite -only")
	}
}

func TestInspect(t *testing.T) {
	workspace(t)
	huffarc(t, "create", "-b", "512", "-o", "out.z", "a.txt")
	code, stdout, stderr := huffarc(t, "inspect", "out.z")
	if code != 0 {
		t.Fatalf("inspect: %s", stderr)
	}
	if !strings.Contains(stdout, "block size:    512\n") {
		t.Errorf("got %q", stdout)
	}
}

func TestFailures(t *testing.T) {
	workspace(t)
	os.WriteFile("zero.z", nil, 0o644)
	cases := []struct {
		args []string
		code int
		msg  string
	}{
		{nil, 2, "usage"},
		{[]string{"explode"}, 2, "usage"},
		{[]string{"create"}, 2, "usage"},
		{[]string{"create", "../outside"}, 1, "inside the working directory"},
		{[]string{"create", "-o", "d.z", "sub"}, 1, "not a regular file"},
		{[]string{"create", "-b", "0", "-o", "d.z", "a.txt"}, 1, "invalid block size"},
		{[]string{"extract", "missing.z"}, 1, "no such file"},
		{[]string{"extract", "zero.z"}, 1, "zero.z: archive is empty"},
		{[]string{"extract", "a.txt"}, 1, "incorrect password or corrupted file"},
	}
	for _, c := range cases {
		t.Run(strings.Join(c.args, " "), func(t *testing.T) {
			code, _, stderr := huffarc(t, c.args...)
			if code != c.code || !strings.Contains(stderr, c.msg) {
				t.Errorf("got %d %q", code, stderr)
			}
		})
	}
}
