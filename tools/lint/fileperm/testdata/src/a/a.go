package a

import "os"

const privatePerm = 0o600

func write() {
	_ = os.WriteFile("a.txt", nil, 0o644) // want `use fileutil.ReadWriteUserReadOthers instead of hardcoded 0o644`
	_ = os.MkdirAll("dir", 0o755)         // want `use fileutil.ReadWriteExecuteUserReadExecuteOthers instead of hardcoded 0o755`
	_ = os.WriteFile("b.txt", nil, 0600)
	_ = os.Chmod("a.txt", 0o640)
	_ = os.WriteFile("c.txt", nil, privatePerm)
}
