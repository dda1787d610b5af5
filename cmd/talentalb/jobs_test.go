package main

import (
	"encoding/json"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/jonathan/talentalb/internal/types"
)

func TestJobsList(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("jobs", "list", "--q", "position", "--city", "Tirana")
	assert.Contains(t, out, `Active filters: keyword: "position" · city: "Tirana"`)
	assert.Contains(t, out, "Position 00")
	assert.Contains(t, out, "Position 05")
	assert.NotContains(t, out, "Position 06")
	assert.Contains(t, out, "Showing 6 of 12 job posts")
	assert.Contains(t, out, "Page 1 of 2")
}

func TestRepeatedRunsInOneProcess(t *testing.T) {
	c := newCLI(t)

	for i := 0; i < 3; i++ {
		out := c.mustRun("jobs", "list")
		assert.Contains(t, out, "Page 1 of 2")
		c.mustRun("apply", "--job-id", "job-01", "--name", "Ada", "--email", "ada@example.com")
	}
	for i := 0; i < 2; i++ {
		var apps []types.JobApplication
		require.NoError(t, json.Unmarshal([]byte(c.mustRun("applications", "list", "--json")), &apps))
		assert.Len(t, apps, 3)
	}
}

func TestJobsSearchFlags_PerCommand(t *testing.T) {
	resetFlags(rootCmd)
	t.Cleanup(func() { resetFlags(rootCmd) })

	require.NoError(t, jobsExportCmd.Flags().Parse([]string{"--q", "go", "--city", "Durrës", "--page", "3"}))
	assert.Equal(t, types.FilterSet{Q: "go", City: "Durrës"}, exportSearch.filters())
	assert.Equal(t, 3, exportSearch.page)

	assert.Equal(t, types.FilterSet{}, listSearch.filters())
	assert.Equal(t, 1, listSearch.page)
}

func TestJobsList_OutOfRangePageIsCorrected(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("jobs", "list", "--page", "3")
	assert.Contains(t, out, "Position 06")
	assert.Contains(t, out, "Page 2 of 2")
}

func TestJobsList_RefineAndSort(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("jobs", "list", "--work-mode", "remote", "--sort", "salary-high", "--json")
	var items []types.JobPosting
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 2)
	assert.Equal(t, "job-03", items[0].ID)
	assert.Equal(t, "job-00", items[1].ID)

	out = c.mustRun("jobs", "list", "--seniority", "lead")
	assert.Contains(t, out, "No job post on this page matches the selected filters.")
}

func TestJobsList_InvalidRefinement(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("jobs", "list", "--sort", "cheapest")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown sort mode")

	_, err = c.run("jobs", "list", "--work-mode", "moon")
	assert.Error(t, err)
}

func TestJobsList_BackendError(t *testing.T) {
	c := newCLI(t)
	c.backend.setFail(http.StatusInternalServerError)

	_, err := c.run("jobs", "list")
	require.Error(t, err)
	assert.Equal(t, "Error 500: could not load job posts", err.Error())

	_, err = c.runRaw("--locale", "it", "jobs", "list")
	require.Error(t, err)
	assert.Equal(t, "Errore 500: impossibile caricare le offerte", err.Error())
}

func TestJobsExport(t *testing.T) {
	c := newCLI(t)

	out := c.mustRun("jobs", "export", "--all")
	var items []types.JobPosting
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 12)
	for i, item := range items {
		assert.Equal(t, postings()[i].ID, item.ID, "export keeps page order")
	}

	out = c.mustRun("jobs", "export", "--page", "2")
	require.NoError(t, json.Unmarshal([]byte(out), &items))
	require.Len(t, items, 6)
	assert.Equal(t, "job-06", items[0].ID)

	path := filepath.Join(t.TempDir(), "jobs.yaml")
	c.mustRun("jobs", "export", "--all", "--max-pages", "1", "--format", "yaml", "--out", path)
	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	var docs []map[string]any
	require.NoError(t, yaml.Unmarshal(raw, &docs))
	require.Len(t, docs, 6)
	assert.Equal(t, "job-00", docs[0]["id"])
	assert.Equal(t, "REMOTE", docs[0]["distanceType"])

	_, err = c.run("jobs", "export", "--format", "csv")
	assert.Error(t, err)
}

func TestJobsPost(t *testing.T) {
	c := newCLI(t)

	_, err := c.run("jobs", "post", "--title", "Go developer", "--description", "Build APIs")
	require.Error(t, err)
	assert.Equal(t, "Enter the company ID.", err.Error())

	c.mustRun("signup", "company", "--email", "hr@acme.al", "--password", "s3cret-pass", "--company-name", "Acme")

	_, err = c.run("jobs", "post", "--description", "Build APIs")
	require.Error(t, err)
	assert.Equal(t, "Enter the job title.", err.Error())

	out := c.mustRun("jobs", "post",
		"--title", "Go developer",
		"--description", "Build APIs",
		"--work-mode", "hybrid",
		"--salary-min", "1200,50",
		"--salary-visible",
	)
	assert.Contains(t, out, "Job post created")
	assert.Contains(t, out, "Generated ID: jp-1")
	assert.Contains(t, out, "Status: PUBLISHED")

	require.Len(t, c.backend.created, 1)
	sent := c.backend.created[0]
	assert.Equal(t, "c-77", sent["companyId"], "company ID comes from the session")
	assert.Equal(t, "HYBRID", sent["distanceType"])
	assert.Equal(t, 1200.5, sent["salaryMin"])
	assert.Equal(t, true, sent["salaryVisible"])
	assert.NotContains(t, sent, "salaryMax")
	assert.NotContains(t, sent, "city")

	_, err = c.run("jobs", "post", "--title", "x", "--description", "y", "--salary-max", "lots")
	assert.Error(t, err)
}
