package game

import "github.com/gammazero/deque"

type NeighborGetter func(Position) []Position
type Visitor func(pos Position, distance int)

// flood visits every position reachable from start in breadth-first order,
// each exactly once
func flood(start Position, visit Visitor, getNeighbors NeighborGetter) {
	visited := map[Position]struct{}{start: {}}
	distances := map[Position]int{start: 0}

	var queue deque.Deque
	queue.PushBack(start)

	for queue.Len() > 0 {
		pos := queue.PopFront().(Position)
		distance := distances[pos]
		visit(pos, distance)

		for _, neighbor := range getNeighbors(pos) {
			// Don't visit, if already visited
			if _, alreadyVisited := visited[neighbor]; alreadyVisited {
				continue
			}
			visited[neighbor] = struct{}{}
			distances[neighbor] = distance + 1
			queue.PushBack(neighbor)
		}
	}
}

// Distances maps every passage reachable from `from` to its step count
func Distances(maze *Maze, from Position) map[Position]int {
	distances := make(map[Position]int)
	if !maze.IsPassage(from) {
		return distances
	}

	flood(
		from,
		func(pos Position, distance int) {
			distances[pos] = distance
		},
		maze.Neighbors,
	)
	return distances
}

// ShortestPath returns the positions from `from` to `to`, both included, or
// nil when `to` cannot be reached
func ShortestPath(maze *Maze, from, to Position) []Position {
	if !maze.IsPassage(from) || !maze.IsPassage(to) {
		return nil
	}

	parents := map[Position]Position{}
	found := false
	flood(
		from,
		func(pos Position, distance int) {
			if pos == to {
				found = true
			}
		},
		func(pos Position) []Position {
			if found {
				return nil
			}
			neighbors := maze.Neighbors(pos)
			for _, neighbor := range neighbors {
				if _, seen := parents[neighbor]; !seen && neighbor != from {
					parents[neighbor] = pos
				}
			}
			return neighbors
		},
	)

	if !found {
		return nil
	}

	path := []Position{to}
	for pos := to; pos != from; {
		pos = parents[pos]
		path = append(path, pos)
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

// PathDirections converts consecutive positions into the moves between them
func PathDirections(path []Position) []Direction {
	if len(path) < 2 {
		return nil
	}

	dirs := make([]Direction, 0, len(path)-1)
	for i := 1; i < len(path); i++ {
		dir, ok := DirectionBetween(path[i-1], path[i])
		if !ok {
			return nil
		}
		dirs = append(dirs, dir)
	}
	return dirs
}
