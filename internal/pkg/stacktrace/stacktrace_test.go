package stacktrace

import (
	"reflect"
	"testing"
)

func TestInternalPaths(t *testing.T) {
	stack := []byte(`goroutine 1 [running]:
runtime/debug.Stack()
	/usr/local/go/src/runtime/debug/stack.go:26 +0x5e
github.com/shandysiswandi/phoneotp/internal/phoneotp/usecase.(*Usecase).Issue(...)
	/src/internal/phoneotp/usecase/issue.go:42 +0x1a
main.main()
	/src/main.go:9 +0x1d
`)

	got := InternalPaths(stack)
	want := []string{"internal/phoneotp/usecase/issue.go:42"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("InternalPaths() = %v, want %v", got, want)
	}
}

func TestInternalPaths_None(t *testing.T) {
	if got := InternalPaths([]byte("goroutine 1 [running]:\nmain.main()\n\t/src/main.go:9\n")); len(got) != 0 {
		t.Errorf("InternalPaths() = %v, want empty", got)
	}
}
