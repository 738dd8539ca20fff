package monitor

import (
	"fmt"

	"ember/internal/buildinfo"
	"ember/kernel"
)

func builtins() []Command {
	return []Command{
		{Name: "help", Aliases: []string{"h", "?"}, Desc: "list commands", Run: cmdHelp},
		{Name: "tasks", Aliases: []string{"ps", "ls"}, Desc: "dump the active task list", Run: cmdTasks},
		{Name: "find", Usage: "<name>", Desc: "look up a task id by name", Run: cmdFind},
		{Name: "kill", Usage: "<id>", Desc: "remove an active task", Run: cmdKill},
		{Name: "suspend", Desc: "stop tick overrun checking", Run: cmdSuspend},
		{Name: "resume", Desc: "restart tick overrun checking", Run: cmdResume},
		{Name: "stats", Desc: "executive counters", Run: cmdStats},
		{Name: "button", Aliases: []string{"btn"}, Desc: "button state", Run: cmdButton},
		{Name: "version", Aliases: []string{"ver"}, Desc: "build information", Run: cmdVersion},
	}
}

func cmdHelp(m *Monitor, _ []Token) error {
	for _, name := range m.reg.names() {
		cmd := m.reg.primary[name]
		usage := name
		if cmd.Usage != "" {
			usage += " " + cmd.Usage
		}
		m.Printf("  %-14s %s\n", usage, cmd.Desc)
	}
	return nil
}

func cmdTasks(m *Monitor, _ []Token) error {
	id := m.exec.First()
	if id == kernel.NotFound {
		m.Printf("no active tasks\n")
		return nil
	}
	for id != kernel.NotFound {
		id = m.exec.TaskListDump(id, m.Printf)
	}
	return nil
}

func cmdFind(m *Monitor, args []Token) error {
	if len(args) != 1 {
		return ErrUsage
	}
	id := m.exec.TaskExists(args[0].Str)
	if id == kernel.NotFound {
		m.Printf("%s: not found\n", args[0].Str)
		return nil
	}
	m.Printf("%s: id %d\n", args[0].Str, id)
	return nil
}

func cmdKill(m *Monitor, args []Token) error {
	if len(args) != 1 || !args[0].Numeric {
		return ErrUsage
	}
	n := args[0].Num
	if n < 0 || n >= kernel.TasksMax {
		return fmt.Errorf("id %d out of range", n)
	}
	id := kernel.TaskID(n)
	name, ok := m.exec.Name(id)
	if !ok {
		return fmt.Errorf("id %d is not active", n)
	}
	m.exec.TaskRemove(id)
	m.Printf("removed %d (%s)\n", id, name)
	return nil
}

func cmdSuspend(m *Monitor, _ []Token) error {
	m.exec.Suspend()
	m.Printf("overrun checking suspended\n")
	return nil
}

func cmdResume(m *Monitor, _ []Token) error {
	if !m.exec.Suspended() {
		m.Printf("not suspended\n")
		return nil
	}
	m.exec.Resume()
	m.Printf("overrun checking resumes on the next tick\n")
	return nil
}

func cmdStats(m *Monitor, _ []Token) error {
	s := m.exec.Stats()
	m.Printf("ticks %d sweeps %d fired %d overruns %d suspended %v rx-dropped %d\n",
		s.Ticks, s.Sweeps, s.Fired, s.Overruns, m.exec.Suspended(), m.Dropped())
	return nil
}

func cmdButton(m *Monitor, _ []Token) error {
	if m.button == nil {
		m.Printf("no button\n")
		return nil
	}
	st := m.button.Peek()
	m.Printf("pressed %v was-pressed %v was-released %v missed %v\n",
		st.Pressed, st.WasPressed, st.WasReleased, st.Missed)
	return nil
}

func cmdVersion(m *Monitor, _ []Token) error {
	m.Printf("%s\n", buildinfo.String())
	return nil
}
