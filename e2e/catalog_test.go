//go:build e2e && unix

package main

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestCatalogShowsDefaultDepartment(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.startWithCatalog())
	require.True(t, tf.Ready())

	require.NoError(t, tf.WaitForE(containsPlain("CSCI 1100"), 3*time.Second, "catalog should list CSCI courses"))
	require.True(t, tf.SeePlain("Data Structures"))
	require.True(t, tf.SeePlain("Spring 2014"))
	require.True(t, tf.WaitForStatusMessage("Loaded 2 CSCI courses", 3*time.Second))
}

func TestDepartmentSwitch(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.startWithCatalog())
	require.True(t, tf.Ready())
	require.True(t, tf.SeePlain("CSCI 1100"))

	tf.SendKeys(KeyDept)
	require.True(t, tf.SeePlain("Department:"))
	tf.Type("math")

	require.NoError(t, tf.WaitForE(containsPlain("MATH 1010"), 3*time.Second, "should load MATH courses"))
	require.True(t, tf.SeePlain("Calculus I"))
}

func TestFilterNarrowsCatalog(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.startWithCatalog())
	require.True(t, tf.Ready())
	require.True(t, tf.SeePlain("CSCI 1200"))

	tf.SendKeys(KeyFilter)
	tf.Type("data")
	require.NoError(t, tf.WaitForE(containsPlain("[Filter: data · 1]"), 3*time.Second, "filter badge should show one match"))
}

func TestSelectedCourseAppearsOnSelectionScreen(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.startWithCatalog())
	require.True(t, tf.Ready())
	require.True(t, tf.SeePlain("CSCI 1100"))

	tf.Select()
	require.True(t, tf.WaitForStatusMessage("Selection saved (1 courses)", 3*time.Second))

	tf.Tab()
	// the offline catalog has no schedule service
	require.NoError(t, tf.WaitForE(containsPlain("No schedules fit the selected sections"), 3*time.Second, "selection screen should render"))
	require.True(t, tf.SeePlain("c: clear selection"))

	tf.SendKeys("c")
	require.True(t, tf.WaitForStatusMessage("Selection cleared", 3*time.Second))
}

func TestSelectionSurvivesRestart(t *testing.T) {
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.startWithCatalog())
	require.True(t, tf.Ready())
	require.True(t, tf.SeePlain("CSCI 1100"))

	tf.Down()
	tf.Select()
	require.True(t, tf.WaitForStatusMessage("Selection saved (1 courses)", 3*time.Second))
	require.NoError(t, tf.Exit(3*time.Second))

	again := NewTUITest(t)
	again.workspace = tf.workspace
	defer func() {
		again.workspace = "" // removed by the first framework
		again.Cleanup()
	}()

	require.NoError(t, again.startWithCatalog())
	require.True(t, again.Ready())
	again.Tab()
	require.NoError(t, again.WaitForE(containsPlain("Loaded 1 selected courses"), 3*time.Second, "saved course should load on the selection screen"))
	require.True(t, again.SeePlain("c: clear selection"))
}

func TestHelpToggle(t *testing.T) {
	t.Parallel()
	tf := NewTUITest(t)
	defer tf.Cleanup()

	require.NoError(t, tf.startWithCatalog())
	require.True(t, tf.Ready())

	tf.SendKeys(KeyHelp)
	require.True(t, tf.SeePlain("reload"), "full help should list the reload binding")
}

func containsPlain(text string) func(string) bool {
	return func(s string) bool {
		return strings.Contains(ansiRe.ReplaceAllString(s, ""), text)
	}
}
