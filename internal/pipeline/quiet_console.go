package pipeline

import "os/exec"

// quietConsole best-effort switches the active virtual terminal away from
// the camera overlay and silences kernel log lines that would otherwise be
// scribbled over the framebuffer by the console driver. Failures are
// expected on anything but the target SBC image and are ignored.
func quietConsole() {
	_ = exec.Command("chvt", "7").Run()
	_ = exec.Command("sysctl", "-w", "kernel.printk=0 4 0 4").Run()
}
