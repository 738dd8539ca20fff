package kernel

import "fmt"

// Printf is the output function TaskListDump writes through.
type Printf func(format string, a ...any) (int, error)

// First returns the id at the head of the active list, or NotFound when no
// task is active.
func (e *Executive) First() TaskID {
	if e.activeHead == EOL {
		return NotFound
	}
	return e.activeHead
}

// TaskListDump prints the record for id and returns the next active id, or
// NotFound after the last one. An out of range id dumps the head of the
// active list. Diagnostic only; call it from foreground context.
func (e *Executive) TaskListDump(id TaskID, printf Printf) TaskID {
	if id >= TasksMax {
		printf("Invalid Task ID number\n")
		id = e.activeHead
		if id == EOL {
			return NotFound
		}
	}
	t := e.tl[id]

	printf("ID\tNAME\t\tINTV\tTMR\tTASK\tPARAM\tPri\tONCE\tREM\tNXT\n")
	printf("%d\t%-16s%d\t%d\t%s\t%v\t%d\t%d\t%d\t%d\n",
		id, truncate(t.name), t.interval, t.timer, taskName(t.task), t.param,
		t.priority, b2i(t.once), b2i(t.remove), t.next)

	if t.next == EOL {
		return NotFound
	}
	return t.next
}

func taskName(t Task) string {
	if t == nil {
		return "-"
	}
	return fmt.Sprintf("%T", t)
}

func b2i(b bool) int {
	if b {
		return 1
	}
	return 0
}

// Name returns the name of id if it is on the active list.
func (e *Executive) Name(id TaskID) (string, bool) {
	for i := e.activeHead; i != EOL; i = e.tl[i].next {
		if i == id {
			return e.tl[i].name, true
		}
	}
	return "", false
}
