package bot

import (
	"errors"
	"os/exec"
	"strconv"
)

// exitError produces a real *exec.ExitError with the given code
func exitError(code int) error {
	err := exec.Command("sh", "-c", "exit "+strconv.Itoa(code)).Run()
	var exitErr *exec.ExitError
	if !errors.As(err, &exitErr) {
		panic("sh did not exit with an error")
	}
	return exitErr
}
