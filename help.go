package websh

import "context"

const helpText = `Supported commands:
File Operations:
  pwd                          - Print working directory
  ls [-l] [-a] [path]          - List directory contents
  cd <path>                    - Change directory
  mkdir <name>                 - Create directory
  rmdir <name>                 - Remove empty directory
  rm [-r] <path>               - Remove file or directory
  cat <file>                   - Display file contents
  touch <file>                 - Create empty file or update timestamp
  mv <src> <dest>              - Move/rename files
  cp [-r] <src> <dest>         - Copy files or directories
  head [-n num] <file>         - Display first lines of file (default 10)
  tail [-n num] <file>         - Display last lines of file (default 10)
  wc <file>                    - Count lines, words, characters
  grep <pattern> <file>        - Search for pattern in file
  find [path] [-name pattern]  - Find files matching pattern

File Information:
  stat <file>                  - Display file status and metadata
  chmod <mode> <file>          - Change file permissions (octal)
  du [path]                    - Display disk usage
  df                           - Display filesystem disk space
  tree [path]                  - Display directory tree structure
  md5sum <file>                - Calculate MD5 checksum
  sha256sum <file>             - Calculate SHA256 checksum

Text Output:
  echo [text]                  - Print text to stdout
  echo [text] > file           - Write text to file (overwrite)
  echo [text] >> file          - Append text to file
  cat <file>                   - Display file contents
  cat > file                   - Write input to file (empty line to end)
  cat >> file                  - Append input to file (empty line to end)
  cat >> file << EOF           - Heredoc: write until EOF is entered
  jq <filter> [file]           - Run a jq filter over a JSON file

System Information:
  cpu                          - Display CPU usage
  mem                          - Display memory usage
  ps                           - List running processes
  date                         - Display current date and time
  uptime                       - Display system uptime
  whoami                       - Display current user
  hostname                     - Display system hostname

Utilities:
  import-file <local> <dest>   - Copy a host file into the shell filesystem
  export-file <src> <local>    - Copy a shell file out to the host
  clear                        - Clear screen
  which <cmd>                  - Show command location
  help                         - Display this help message
`

// cmdHelp implements the help command.
func (it *Interpreter) cmdHelp(ctx context.Context, args []string, cwd string) Result {
	return Result{Stdout: helpText, Dir: cwd}
}
