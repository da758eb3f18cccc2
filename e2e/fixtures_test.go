//go:build e2e && unix

package main

import (
	"os"
	"os/exec"
	"path/filepath"
)

const catalogHeader = "semester_id,semester_name,year,month,department_code,department_name,course_id,course_number,course_name,min_credits,max_credits,comm_intense,grade_type,section_id,section_number,crn,seats_taken,seats_total,kind,days,start,end,instructor,location\n"

// catalogCSV is a small offline catalog: two CSCI courses and one MATH course
const catalogCSV = catalogHeader +
	"12,Spring 2014,2014,1,CSCI,Computer Science,5,1100,Computer Science I,4,4,false,,6,01,87600,0,200,LEC,TF,14:00,15:50,Turner,WEST AUD\n" +
	"12,Spring 2014,2014,1,CSCI,Computer Science,2,1200,Data Structures,4,4,false,,3,01,87654,10,30,LEC,MR,10:00,11:50,Cutler,DCC 308\n" +
	"12,Spring 2014,2014,1,CSCI,Computer Science,2,1200,Data Structures,4,4,false,,4,02,87655,30,30,LEC,MR,12:00,13:50,Cutler,DCC 308\n" +
	"12,Spring 2014,2014,1,MATH,Mathematics,7,1010,Calculus I,4,4,false,,8,01,90000,5,100,LEC,MWR,9:00,9:50,Euler,DCC 337\n"

// CreateTestWorkspace creates a temporary home for config, cache and the selection database
func (tf *TUITestFramework) CreateTestWorkspace() (string, error) {
	tmpDir := tf.t.TempDir()
	tf.workspace = tmpDir
	return tmpDir, nil
}

// WriteCatalog writes the fixture catalog into the workspace and returns its path
func (tf *TUITestFramework) WriteCatalog() (string, error) {
	path := filepath.Join(tf.workspace, "catalog.csv")
	return path, os.WriteFile(path, []byte(catalogCSV), 0644)
}

// startWithCatalog prepares a workspace and launches the TUI on the fixture catalog
func (tf *TUITestFramework) startWithCatalog(args ...string) error {
	if tf.workspace == "" {
		if _, err := tf.CreateTestWorkspace(); err != nil {
			return err
		}
	}
	path, err := tf.WriteCatalog()
	if err != nil {
		return err
	}
	return tf.StartApp(append([]string{"--catalog", path}, args...)...)
}

// cliCommand runs the binary outside the PTY with the workspace as home
func cliCommand(workspace string, args ...string) *exec.Cmd {
	cmd := exec.Command(binPath, args...)
	cmd.Env = append(os.Environ(),
		"HOME="+workspace,
		"XDG_CONFIG_HOME="+filepath.Join(workspace, "config"),
		"XDG_CACHE_HOME="+filepath.Join(workspace, "cache"),
	)
	return cmd
}
