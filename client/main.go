// Demo bot client: joins a room as visitor or chef and plays its flow
// end to end against a running relay. Handy for eyeballing the protocol
// without a game build.
package main

import (
	"encoding/binary"
	"encoding/json"
	"flag"
	"log"
	"net/url"
	"os"
	"os/signal"
	"time"

	"github.com/gorilla/websocket"

	"github.com/bistroduet/gameserver/chef"
	"github.com/bistroduet/gameserver/models"
	"github.com/bistroduet/gameserver/network"
	"github.com/bistroduet/gameserver/order"
	"github.com/bistroduet/gameserver/visitor"
	"github.com/bistroduet/gameserver/world"
)

var (
	addr     = flag.String("addr", "localhost:8080", "relay address")
	roomCode = flag.String("room", "demo", "room code to join")
	role     = flag.String("role", "visitor", "visitor or chef")
	name     = flag.String("name", "bot", "display name")
)

func send(c *websocket.Conn, msgID uint16, payload interface{}) error {
	data := network.Marshal(payload)
	packet := make([]byte, 4+len(data))
	binary.BigEndian.PutUint16(packet[0:2], msgID)
	binary.BigEndian.PutUint16(packet[2:4], uint16(len(data)))
	copy(packet[4:], data)
	return c.WriteMessage(websocket.BinaryMessage, packet)
}

func main() {
	flag.Parse()

	interrupt := make(chan os.Signal, 1)
	signal.Notify(interrupt, os.Interrupt)

	u := url.URL{Scheme: "ws", Host: *addr, Path: "/ws"}
	log.Printf("Connecting to %s", u.String())

	c, _, err := websocket.DefaultDialer.Dial(u.String(), nil)
	if err != nil {
		log.Fatalf("Dial failed: %v", err)
	}
	defer c.Close()

	if err := send(c, network.MsgTypeJoinRoom, models.JoinRoomRequest{
		RoomID: *roomCode, Role: *role, Username: *name,
	}); err != nil {
		log.Fatalf("Join failed: %v", err)
	}

	packets := make(chan *network.Packet, 64)
	go func() {
		defer close(packets)
		for {
			_, message, err := c.ReadMessage()
			if err != nil {
				log.Println("Read error:", err)
				return
			}
			if len(message) < 4 {
				continue
			}
			packets <- &network.Packet{
				MsgID: binary.BigEndian.Uint16(message[0:2]),
				Data:  message[4:],
			}
		}
	}()

	switch *role {
	case "chef":
		runChef(c, packets, interrupt)
	default:
		runVisitor(c, packets, interrupt)
	}
}

// walkTo streams a few waypoints toward target so the peer sees movement
// and the local machine's proximity triggers fire.
func walkTo(c *websocket.Conn, m *visitor.Machine, from, target world.Position) world.Position {
	const steps = 5
	pos := from
	for i := 1; i <= steps; i++ {
		f := float64(i) / steps
		pos = world.Position{
			X: from.X + (target.X-from.X)*f,
			Z: from.Z + (target.Z-from.Z)*f,
		}
		m.UpdatePosition(pos)
		send(c, network.MsgTypePlayerMove, models.MoveRequest{Position: pos})
		time.Sleep(150 * time.Millisecond)
	}
	return pos
}

func runVisitor(c *websocket.Conn, packets chan *network.Packet, interrupt chan os.Signal) {
	m := visitor.NewMachine(visitor.DefaultConfig(), nil)
	pos := world.VisitorSpawn
	var menuOrder models.PlaceOrderRequest

	for {
		select {
		case <-interrupt:
			return
		case packet, ok := <-packets:
			if !ok {
				return
			}
			switch packet.MsgID {
			case network.MsgTypeRoomJoined:
				log.Printf("Joined as visitor, walking in")
				pos = walkTo(c, m, pos, world.EntranceDoor)
				if m.SelectPartySize(2) {
					send(c, network.MsgTypeBookTable, models.BookTableRequest{TableSize: 2})
				}

			case network.MsgTypeTableAssigned:
				var p models.TableAssigned
				json.Unmarshal(packet.Data, &p)
				m.TableAssigned(p.TableID, p.Position)
				log.Printf("Assigned table %d", p.TableID)

			case network.MsgTypeTableUnavailable:
				log.Printf("No table available, leaving")
				return

			case network.MsgTypeWaiterApproached:
				if m.WaiterApproached() {
					pos = walkTo(c, m, pos, m.State().TablePosition)
					if m.SitDown() {
						send(c, network.MsgTypeVisitorSatDown, nil)
					}
					if m.RequestMenu() {
						send(c, network.MsgTypeMenuRequested, nil)
					}
				}

			case network.MsgTypeMenuBrought:
				var p models.MenuBrought
				json.Unmarshal(packet.Data, &p)
				if m.MenuBrought() && len(p.Items) > 0 {
					item := p.Items[0]
					menuOrder = models.PlaceOrderRequest{
						TableID: m.State().CurrentTable,
						Items: []order.Line{{
							Name: item.Name, Quantity: 1, UnitPrice: item.Price,
						}},
					}
					send(c, network.MsgTypePlaceOrder, menuOrder)
				}

			case network.MsgTypeOrderPlaced:
				var p models.OrderPlaced
				json.Unmarshal(packet.Data, &p)
				m.OrderSubmitted(p.Order)
				log.Printf("Order %s placed, waiting", p.Order.ID)

			case network.MsgTypeOrderStatusChanged:
				var p models.OrderStatusChanged
				json.Unmarshal(packet.Data, &p)
				log.Printf("Order %s is now %s", p.OrderID, p.Status)
				if p.Status == order.StatusServed && m.OrderServed(p.OrderID) {
					m.StartRating()
					if m.SubmitRating(5) {
						send(c, network.MsgTypeSubmitRating, models.SubmitRating{Rating: 5})
						send(c, network.MsgTypeEndSession, nil)
					}
				}

			case network.MsgTypeWaiterLine:
				var p models.WaiterLine
				json.Unmarshal(packet.Data, &p)
				log.Printf("Waiter: %s", p.Text)

			case network.MsgTypeSessionEnded:
				log.Printf("Session ended, visit complete: phase=%s", m.Phase())
				return
			}
		}
	}
}

func runChef(c *websocket.Conn, packets chan *network.Packet, interrupt chan os.Signal) {
	m := chef.NewMachine(nil)
	m.EnterKitchen()
	if m.CompleteTutorial() {
		send(c, network.MsgTypeTutorialCompleted, nil)
	}

	tick := time.NewTicker(100 * time.Millisecond)
	defer tick.Stop()

	for {
		select {
		case <-interrupt:
			return

		case <-tick.C:
			if m.Phase() != chef.PhaseCooking {
				continue
			}
			if _, _ = m.Tick(); m.Phase() == chef.PhaseServing {
				st := m.State()
				o := st.CurrentOrder
				send(c, network.MsgTypeOrderCompleted, models.OrderCompleted{
					OrderID:        o.ID,
					CompletionTime: o.Estimate.Seconds(),
					WasOnTime:      true,
				})
				if m.Serve() {
					send(c, network.MsgTypeOrderStatusUpdate, models.OrderStatusUpdate{
						OrderID: o.ID, Status: order.StatusServed,
					})
					log.Printf("Served %s, score now %d", o.ID, m.State().Score)
				}
			}

		case packet, ok := <-packets:
			if !ok {
				return
			}
			switch packet.MsgID {
			case network.MsgTypeRoomJoined:
				log.Printf("Joined as chef, waiting for orders")

			case network.MsgTypeOrderReceived:
				var p models.OrderReceived
				json.Unmarshal(packet.Data, &p)
				if m.HandleOrder(p.Order) {
					send(c, network.MsgTypeOrderStatusUpdate, models.OrderStatusUpdate{
						OrderID: p.Order.ID, Status: order.StatusCooking,
					})
					log.Printf("Cooking order %s (%s)", p.Order.ID, p.Order.Items[0].Name)
				}

			case network.MsgTypeOrderCancelled:
				var p models.OrderCancelled
				json.Unmarshal(packet.Data, &p)
				log.Printf("Order %s cancelled: %s", p.OrderID, p.Reason)

			case network.MsgTypeSessionEnded:
				log.Printf("Session ended, final score %d", m.State().Score)
				return
			}
		}
	}
}
