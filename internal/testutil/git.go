package testutil

import (
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	gogit "github.com/go-git/go-git/v5"
	"github.com/go-git/go-git/v5/config"
	"github.com/go-git/go-git/v5/plumbing"
	"github.com/go-git/go-git/v5/plumbing/object"
	"github.com/stretchr/testify/require"
)

// CommitDate is the fixed author/committer time of every test commit
var CommitDate = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

// NewTestRepo initialises a repository on "main" in a temp directory with an initial
// commit. If remoteURL is not empty it is configured as "origin".
func NewTestRepo(t *testing.T, remoteURL string) string {
	t.Helper()
	dir := t.TempDir()

	repo, err := gogit.PlainInitWithOptions(dir, &gogit.PlainInitOptions{
		InitOptions: gogit.InitOptions{DefaultBranch: plumbing.NewBranchReferenceName("main")},
	})
	require.NoError(t, err)

	if remoteURL != "" {
		_, err = repo.CreateRemote(&config.RemoteConfig{Name: "origin", URLs: []string{remoteURL}})
		require.NoError(t, err)
	}

	CreateCommit(t, dir, "Initial commit")
	return dir
}

// CreateCommit writes a file named after title and commits it, returning the hash
func CreateCommit(t *testing.T, dir string, title string) string {
	t.Helper()
	repo, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)

	name := fmt.Sprintf("file-%d.txt", time.Now().UnixNano())
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(title+"\n"), 0644))
	_, err = wt.Add(name)
	require.NoError(t, err)

	sig := &object.Signature{Name: "Test User", Email: "test@example.com", When: CommitDate}
	hash, err := wt.Commit(title, &gogit.CommitOptions{Author: sig, Committer: sig})
	require.NoError(t, err)
	return hash.String()
}

// CheckoutNewBranch creates branch at HEAD and checks it out
func CheckoutNewBranch(t *testing.T, dir string, branch string) {
	t.Helper()
	repo, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	wt, err := repo.Worktree()
	require.NoError(t, err)
	require.NoError(t, wt.Checkout(&gogit.CheckoutOptions{
		Branch: plumbing.NewBranchReferenceName(branch),
		Create: true,
	}))
}

// AddRemote configures an extra remote
func AddRemote(t *testing.T, dir string, name string, url string) {
	t.Helper()
	repo, err := gogit.PlainOpen(dir)
	require.NoError(t, err)
	_, err = repo.CreateRemote(&config.RemoteConfig{Name: name, URLs: []string{url}})
	require.NoError(t, err)
}
