package opt

import "botnav/internal/model"

// Local-search polishing passes. Each keeps applying its move while it
// finds a strict score improvement that stays feasible. Route scores
// come from the evaluator's cache, so revisiting a known sequence is
// cheap.

// relocateImprove moves single orders to a better position, within the
// same route or to another bot.
func relocateImprove(ev *evaluator, sol model.Solution) model.Solution {
	improved := true
	for improved {
		improved = false
		for ai := range sol.Routes {
			a := sol.Routes[ai]
			valA, okA := ev.routeValue(a.Bot, a.Orders)
			if !okA {
				continue
			}
			for i := 0; i < len(a.Orders); i++ {
				id := a.Orders[i]
				shortened := removeAt(a.Orders, i)
				valAShort, ok := ev.routeValue(a.Bot, shortened)
				if !ok {
					continue
				}
				for bi := range sol.Routes {
					b := sol.Routes[bi]
					var baseOrders []model.OrderID
					var baseVal int
					if bi == ai {
						baseOrders = shortened
						baseVal = valAShort
					} else {
						var okB bool
						baseVal, okB = ev.routeValue(b.Bot, b.Orders)
						if !okB {
							continue
						}
						baseOrders = b.Orders
					}
					for pos := 0; pos <= len(baseOrders); pos++ {
						if bi == ai && pos == i {
							continue
						}
						newVal, ok := ev.routeValue(b.Bot, insertAt(baseOrders, id, pos))
						if !ok {
							continue
						}
						var delta int
						if bi == ai {
							delta = newVal - valA
						} else {
							delta = (valAShort - valA) + (newVal - baseVal)
						}
						if delta > 0 {
							sol = sol.Clone()
							sol.Routes[ai].Orders = shortened
							sol.Routes[bi].Orders = insertAt(baseOrders, id, pos)
							improved = true
						}
						if improved {
							break
						}
					}
					if improved {
						break
					}
				}
				if improved {
					break
				}
			}
			if improved {
				break
			}
		}
	}
	return sol
}

// swapImprove exchanges one order between two routes when the combined
// score rises.
func swapImprove(ev *evaluator, sol model.Solution) model.Solution {
	if len(sol.Routes) < 2 {
		return sol
	}
	improved := true
	for improved {
		improved = false
		for ai := 0; ai < len(sol.Routes) && !improved; ai++ {
			for bi := ai + 1; bi < len(sol.Routes) && !improved; bi++ {
				a, b := sol.Routes[ai], sol.Routes[bi]
				valA, okA := ev.routeValue(a.Bot, a.Orders)
				valB, okB := ev.routeValue(b.Bot, b.Orders)
				if !okA || !okB {
					continue
				}
				for i := 0; i < len(a.Orders) && !improved; i++ {
					for j := 0; j < len(b.Orders) && !improved; j++ {
						na := append([]model.OrderID(nil), a.Orders...)
						nb := append([]model.OrderID(nil), b.Orders...)
						na[i], nb[j] = nb[j], na[i]
						newA, ok := ev.routeValue(a.Bot, na)
						if !ok {
							continue
						}
						newB, ok := ev.routeValue(b.Bot, nb)
						if !ok {
							continue
						}
						if (newA-valA)+(newB-valB) > 0 {
							sol = sol.Clone()
							sol.Routes[ai].Orders = na
							sol.Routes[bi].Orders = nb
							improved = true
						}
					}
				}
			}
		}
	}
	return sol
}

// twoOptImprove reverses in-route segments that raise the route score.
func twoOptImprove(ev *evaluator, sol model.Solution) model.Solution {
	for ri := range sol.Routes {
		r := sol.Routes[ri]
		n := len(r.Orders)
		if n < 3 {
			continue
		}
		orders := append([]model.OrderID(nil), r.Orders...)
		val, ok := ev.routeValue(r.Bot, orders)
		if !ok {
			continue
		}
		changed := false
		improved := true
		for improved {
			improved = false
			for i := 0; i < n-1; i++ {
				for k := i + 1; k < n; k++ {
					cand := append([]model.OrderID(nil), orders...)
					for x, y := i, k; x < y; x, y = x+1, y-1 {
						cand[x], cand[y] = cand[y], cand[x]
					}
					newVal, ok := ev.routeValue(r.Bot, cand)
					if !ok {
						continue
					}
					if newVal > val {
						orders = cand
						val = newVal
						improved = true
						changed = true
					}
				}
			}
		}
		if changed {
			sol = sol.Clone()
			sol.Routes[ri].Orders = orders
		}
	}
	return sol
}
