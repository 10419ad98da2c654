package sh

import (
	"bytes"
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"strings"

	"github.com/abiosoft/ishell"

	"github.com/robotalks/rccar.go/pkg/l0/comm"
	"github.com/robotalks/rccar.go/pkg/l1"
	"github.com/robotalks/rccar.go/pkg/l1/env"
	"github.com/robotalks/rccar.go/pkg/l1/env/host"
)

// Shell provides ishell backed interactive shell.
type Shell struct {
	Interactive bool
	OutputJSON  bool
	AutoConnect bool

	Shell  *ishell.Shell
	Config *host.Config
	Conn   *Conn
}

// Conn is an attached car.
type Conn struct {
	Name     string
	Client   *comm.Client
	Features comm.CarFeatures

	closer io.Closer
}

// Close detaches from the car.
func (c *Conn) Close() error {
	return c.closer.Close()
}

const (
	shellKey          = "$shell"
	unconnectedPrompt = "[none] > "
)

var (
	// flags

	evalOnly   bool
	outputJSON bool

	// commands
	commands = []*ishell.Cmd{
		&DiscoverCmd,
		&ConnectCmd,
		&DisconnectCmd,
	}
)

func init() {
	flag.BoolVar(&evalOnly, "e", evalOnly, "Evaluation only, no interactive shell.")
	flag.BoolVar(&outputJSON, "json", outputJSON, "Print output in JSON.")
}

// AddCmds is used by other commands providers during init func.
func AddCmds(cmds ...*ishell.Cmd) {
	commands = append(commands, cmds...)
}

// New creates a new shell.
func New(conf *host.Config) *Shell {
	s := &Shell{
		Interactive: !evalOnly,
		OutputJSON:  outputJSON,

		Shell:  ishell.New(),
		Config: conf,
	}
	s.Shell.Set(shellKey, s)
	s.Shell.SetPrompt(unconnectedPrompt)
	for _, cmd := range commands {
		s.Shell.AddCmd(cmd)
	}
	return s
}

// ShellFrom gets Shell from ishell context.
func ShellFrom(c *ishell.Context) *Shell {
	return c.Get(shellKey).(*Shell)
}

// MustBeConnected wraps command func requires a connection.
func MustBeConnected(fn func(c *ishell.Context)) func(c *ishell.Context) {
	return func(c *ishell.Context) {
		if ShellFrom(c).Conn == nil {
			c.Err(fmt.Errorf("not connected"))
			return
		}
		fn(c)
	}
}

// FormatInfo prints CarInfo into friendly string for display.
func FormatInfo(info l1.CarInfo) string {
	var w bytes.Buffer
	fmt.Fprintf(&w, "%s", info.Ref.Name())
	if info.Meta.Link != "" {
		fmt.Fprintf(&w, " (%s)", info.Meta.Link)
	}
	if info.Meta.Description != "" {
		fmt.Fprintf(&w, ": %s", info.Meta.Description)
	}
	return w.String()
}

// Client returns the client of the attached car.
func Client(c *ishell.Context) *comm.Client {
	if conn := ShellFrom(c).Conn; conn != nil {
		return conn.Client
	}
	return nil
}

// Print prints a result, in JSON if requested.
func Print(c *ishell.Context, v interface{}) {
	if ShellFrom(c).OutputJSON {
		out, err := json.Marshal(v)
		if err != nil {
			c.Err(err)
			return
		}
		c.Println(string(out))
		return
	}
	if v == nil {
		c.Println("OK")
		return
	}
	c.Printf("%+v\n", v)
}

// DoCommand runs an exchange and prints its result.
func DoCommand(c *ishell.Context, fn func(*comm.Client) (interface{}, error)) error {
	client := Client(c)
	if client == nil {
		err := fmt.Errorf("not connected")
		c.Err(err)
		return err
	}
	res, err := fn(client)
	if err != nil {
		c.Err(err)
		return err
	}
	Print(c, res)
	return nil
}

// WithAutoConnect sets AutoConnect.
func (s *Shell) WithAutoConnect(en bool) *Shell {
	s.AutoConnect = en
	return s
}

// DiscoverCars discovers cars announced on the registry.
func (s *Shell) DiscoverCars(filter func(l1.CarInfo) bool) ([]l1.CarInfo, error) {
	infoList, err := s.Config.Discover(context.TODO(), 0)
	if err != nil {
		return nil, err
	}
	if filter != nil {
		items := make([]l1.CarInfo, 0, len(infoList))
		for _, info := range infoList {
			if filter(info) {
				items = append(items, info)
			}
		}
		infoList = items
	}
	return infoList, nil
}

// SelectCar discovers cars and asks for a choice.
func (s *Shell) SelectCar(filter func(l1.CarInfo) bool) (*l1.CarInfo, error) {
	infoList, err := s.DiscoverCars(filter)
	if err != nil {
		return nil, err
	}
	if len(infoList) == 0 {
		return nil, nil
	}
	var index int
	if len(infoList) > 1 {
		if !s.Interactive {
			return nil, fmt.Errorf("more than 1 cars discovered in non-interactive mode")
		}
		items := make([]string, len(infoList))
		for n, info := range infoList {
			items[n] = FormatInfo(info)
		}
		index = s.Shell.MultiChoice(items, "Which one to connect?")
	}
	return &infoList[index], nil
}

// Connect attaches to a car with conf and runs the handshake.
func (s *Shell) Connect(conf *host.Config) error {
	client, closer, err := conf.Connect()
	if err != nil {
		return err
	}
	features, err := client.Handshake()
	if err != nil {
		closer.Close()
		return err
	}
	name := conf.LinkURL
	if conf.Ref.IsValid() {
		name = conf.Ref.Name()
	}
	s.Disconnect()
	s.Conn = &Conn{Name: name, Client: client, Features: features, closer: closer}
	s.Shell.SetPrompt(fmt.Sprintf("%s > ", name))
	return nil
}

// ConnectRef attaches to a car announced on the registry.
func (s *Shell) ConnectRef(ref l1.CarRef) error {
	conf := *s.Config
	conf.Ref = ref
	conf.LinkURL = s.Config.RegistryURL
	return s.Connect(&conf)
}

// ConnectURL attaches to a car by link URL.
func (s *Shell) ConnectURL(linkURL string) error {
	conf := *s.Config
	conf.LinkURL = linkURL
	return s.Connect(&conf)
}

// Disconnect detaches from current car.
func (s *Shell) Disconnect() {
	if s.Conn != nil {
		s.Conn.Close()
		s.Conn = nil
		s.Shell.SetPrompt(unconnectedPrompt)
	}
}

// Run runs the shell.
func (s *Shell) Run(args ...string) {
	if s.AutoConnect && s.Config.LinkURL != "" {
		if s.Interactive {
			s.Shell.Printf("Connecting %s ...\n", s.Config.LinkURL)
		}
		if err := s.Connect(s.Config); err != nil {
			log.Fatalf("connect %q failed: %v", s.Config.LinkURL, err)
		}
	}
	defer s.Disconnect()

	if len(args) > 0 {
		if err := s.Shell.Process(args...); err != nil {
			log.Fatalln(err)
		}
		return
	}
	if s.Interactive {
		s.Shell.Run()
		return
	}
	log.Fatalln("command expected")
}

var (
	// DiscoverCmd discovers cars.
	DiscoverCmd = ishell.Cmd{
		Name:    "discover",
		Aliases: []string{"list", "l"},
		Help:    "",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			infoList, err := s.DiscoverCars(nil)
			if err != nil {
				c.Err(err)
				return
			}
			if s.OutputJSON {
				if len(infoList) == 0 {
					// in case infoList is nil, make it empty slice.
					infoList = []l1.CarInfo{}
				}
				out, err := json.Marshal(infoList)
				if err != nil {
					c.Err(err)
					return
				}
				c.Println(string(out))
				return
			}
			if len(infoList) == 0 {
				c.Println("No cars found")
				return
			}
			for _, info := range infoList {
				c.Println(FormatInfo(info))
			}
		},
	}

	// ConnectCmd connects a car.
	ConnectCmd = ishell.Cmd{
		Name:    "connect",
		Aliases: []string{"c"},
		Help:    "URL | TYPE ID | [TYPE]",
		Func: func(c *ishell.Context) {
			s := ShellFrom(c)
			var err error
			switch {
			case len(c.Args) >= 2:
				err = s.ConnectRef(l1.CarRef{Type: c.Args[0], ID: c.Args[1]})
			case len(c.Args) == 1 && strings.Contains(c.Args[0], "://"):
				err = s.ConnectURL(c.Args[0])
			default:
				var filter func(l1.CarInfo) bool
				if len(c.Args) == 1 {
					filter = func(info l1.CarInfo) bool {
						return info.Ref.Type == c.Args[0]
					}
				}
				var info *l1.CarInfo
				if info, err = s.SelectCar(filter); err == nil {
					if info == nil {
						err = fmt.Errorf("no car discovered")
					} else if info.Meta.Link != "" && info.Meta.Link != env.SchemeMQTT {
						err = fmt.Errorf("%s is not reachable over the registry, connect with its %s URL", info.Ref.Name(), info.Meta.Link)
					} else {
						err = s.ConnectRef(info.Ref)
					}
				}
			}
			if err != nil {
				c.Err(err)
			}
		},
	}

	// DisconnectCmd disconnects current car.
	DisconnectCmd = ishell.Cmd{
		Name:    "disconnect",
		Aliases: []string{"d"},
		Help:    "",
		Func: func(c *ishell.Context) {
			ShellFrom(c).Disconnect()
		},
	}
)

// Main is a helper to provide a single call in main.
func Main() {
	flag.Parse()
	New(host.NewConfig()).WithAutoConnect(true).Run(flag.Args()...)
}
