package websh

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// The transfer verbs move single files across the boundary between the
// host OS filesystem and the interpreter's filesystem. On an OS-backed
// interpreter they degrade to a plain copy; they exist for sessions
// running on an in-memory filesystem.

// cmdImportFile implements the import-file command:
// import-file <local-path> <dest-path>.
func (it *Interpreter) cmdImportFile(ctx context.Context, args []string, cwd string) Result {
	if len(args) < 2 {
		return Result{
			Stderr: "import-file: usage: import-file <local-path> <dest-path>\n",
			Dir:    cwd,
			Code:   2,
		}
	}

	localPath := args[0]
	destPath := ResolvePath(args[1], cwd)

	localFile, err := os.Open(localPath)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("import-file: cannot open local file '%s': %v\n", localPath, err),
			Dir:    cwd,
			Code:   1,
		}
	}
	defer localFile.Close()

	info, err := localFile.Stat()
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("import-file: cannot stat local file '%s': %v\n", localPath, err),
			Dir:    cwd,
			Code:   1,
		}
	}
	if info.IsDir() {
		return Result{
			Stderr: fmt.Sprintf("import-file: '%s' is a directory\n", localPath),
			Dir:    cwd,
			Code:   1,
		}
	}

	if err := it.fs.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
		return errorResult(cwd, err)
	}
	destFile, err := it.fs.Create(destPath)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("import-file: cannot create '%s': %v\n", destPath, err),
			Dir:    cwd,
			Code:   1,
		}
	}
	_, err = io.Copy(destFile, localFile)
	if cerr := destFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("import-file: cannot copy file: %v\n", err),
			Dir:    cwd,
			Code:   1,
		}
	}

	return Result{
		Stdout: fmt.Sprintf("Imported '%s' to '%s'\n", localPath, destPath),
		Dir:    cwd,
	}
}

// cmdExportFile implements the export-file command:
// export-file <src-path> <local-path>.
func (it *Interpreter) cmdExportFile(ctx context.Context, args []string, cwd string) Result {
	if len(args) < 2 {
		return Result{
			Stderr: "export-file: usage: export-file <src-path> <local-path>\n",
			Dir:    cwd,
			Code:   2,
		}
	}

	srcPath := ResolvePath(args[0], cwd)
	localPath := args[1]

	info, err := it.fs.Stat(srcPath)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("export-file: cannot open '%s': %v\n", srcPath, err),
			Dir:    cwd,
			Code:   1,
		}
	}
	if info.IsDir() {
		return Result{
			Stderr: fmt.Sprintf("export-file: '%s' is a directory\n", srcPath),
			Dir:    cwd,
			Code:   1,
		}
	}

	srcFile, err := it.fs.Open(srcPath)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("export-file: cannot open '%s': %v\n", srcPath, err),
			Dir:    cwd,
			Code:   1,
		}
	}
	defer srcFile.Close()

	localFile, err := os.Create(localPath)
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("export-file: cannot create local file '%s': %v\n", localPath, err),
			Dir:    cwd,
			Code:   1,
		}
	}
	_, err = io.Copy(localFile, srcFile)
	if cerr := localFile.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return Result{
			Stderr: fmt.Sprintf("export-file: cannot copy file: %v\n", err),
			Dir:    cwd,
			Code:   1,
		}
	}

	return Result{
		Stdout: fmt.Sprintf("Exported '%s' to '%s'\n", srcPath, localPath),
		Dir:    cwd,
	}
}
