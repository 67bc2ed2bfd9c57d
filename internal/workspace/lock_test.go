package workspace

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeLockFile(t *testing.T, dir string, pid int) string {
	t.Helper()

	data, err := json.Marshal(Lock{PID: pid, Hostname: "elsewhere", Command: "eisen tui", StartedAt: time.Now()})
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, LockFileName)
	if err := os.WriteFile(path, data, 0644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestAcquireLock(t *testing.T) {
	dir := t.TempDir()

	lock, err := AcquireLock(dir, "eisen add", nil)
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}
	if lock.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", lock.PID, os.Getpid())
	}

	onDisk, err := ReadLock(filepath.Join(dir, LockFileName))
	if err != nil {
		t.Fatalf("ReadLock() error = %v", err)
	}
	if onDisk.Command != "eisen add" {
		t.Errorf("Command = %q, want %q", onDisk.Command, "eisen add")
	}

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, LockFileName)); !os.IsNotExist(err) {
		t.Error("lock file should be removed after Release")
	}
	if err := lock.Release(); err != nil {
		t.Errorf("second Release() error = %v", err)
	}
}

func TestAcquireLock_HeldByLiveProcess(t *testing.T) {
	dir := t.TempDir()
	// The parent of the test binary is alive for the duration of the test.
	writeLockFile(t, dir, os.Getppid())

	_, err := AcquireLock(dir, "eisen add", nil)
	if !errors.Is(err, ErrLocked) {
		t.Fatalf("AcquireLock() error = %v, want ErrLocked", err)
	}
}

func TestAcquireLock_TakesOverStaleLock(t *testing.T) {
	dir := t.TempDir()
	writeLockFile(t, dir, 0)

	lock, err := AcquireLock(dir, "eisen tui", nil)
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}
	defer func() { _ = lock.Release() }()

	if lock.PID != os.Getpid() {
		t.Errorf("PID = %d, want %d", lock.PID, os.Getpid())
	}
}

func TestLock_ReleaseLeavesForeignLock(t *testing.T) {
	dir := t.TempDir()

	lock, err := AcquireLock(dir, "eisen", nil)
	if err != nil {
		t.Fatalf("AcquireLock() error = %v", err)
	}
	// Another process took over after this one was considered stale.
	path := writeLockFile(t, dir, os.Getppid())

	if err := lock.Release(); err != nil {
		t.Fatalf("Release() error = %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Error("Release removed a lock owned by another process")
	}
}

func TestLock_NilRelease(t *testing.T) {
	var lock *Lock
	if err := lock.Release(); err != nil {
		t.Errorf("nil Release() error = %v", err)
	}
}

func TestReadLock_Corrupt(t *testing.T) {
	path := filepath.Join(t.TempDir(), LockFileName)
	if err := os.WriteFile(path, []byte("not json"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := ReadLock(path); err == nil {
		t.Error("ReadLock() should fail on a corrupt file")
	}
}
