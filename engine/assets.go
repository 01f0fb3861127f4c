package engine

import (
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/rotisserie/eris"
	"gopkg.in/yaml.v3"
)

// Manifest lists assets by name. Relative paths are resolved against the manifest's
// directory.
type Manifest struct {
	Textures map[string]string `yaml:"textures"`
	Sounds   map[string]string `yaml:"sounds"`
}

// AssetStore keeps loaded textures and sounds by name.
type AssetStore struct {
	mu       sync.RWMutex
	renderer Renderer2D
	audio    AudioDevice
	textures map[string]Texture
	sounds   map[string]Sound
}

// NewAssetStore creates a store that loads through renderer and audio.
func NewAssetStore(renderer Renderer2D, audio AudioDevice) *AssetStore {
	return &AssetStore{
		renderer: renderer,
		audio:    audio,
		textures: make(map[string]Texture),
		sounds:   make(map[string]Sound),
	}
}

// LoadTexture loads the image at path under name, replacing and unloading any texture
// already stored under that name.
func (s *AssetStore) LoadTexture(name, path string) (Texture, error) {
	tex, err := s.renderer.CreateTexture(path)
	if err != nil {
		return nil, eris.Wrapf(err, "load texture %q", name)
	}
	s.mu.Lock()
	old, ok := s.textures[name]
	s.textures[name] = tex
	s.mu.Unlock()
	if ok {
		s.renderer.UnloadTexture(old)
	}
	return tex, nil
}

// AddTexture stores an already created texture.
func (s *AssetStore) AddTexture(name string, tex Texture) {
	s.mu.Lock()
	s.textures[name] = tex
	s.mu.Unlock()
}

// Texture returns the texture stored under name.
func (s *AssetStore) Texture(name string) (Texture, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tex, ok := s.textures[name]
	if !ok {
		return nil, eris.Wrapf(ErrAssetNotFound, "texture %q", name)
	}
	return tex, nil
}

// UnloadTexture releases the texture stored under name.
func (s *AssetStore) UnloadTexture(name string) error {
	s.mu.Lock()
	tex, ok := s.textures[name]
	delete(s.textures, name)
	s.mu.Unlock()
	if !ok {
		return eris.Wrapf(ErrAssetNotFound, "texture %q", name)
	}
	s.renderer.UnloadTexture(tex)
	return nil
}

// LoadSound loads the clip at path under name.
func (s *AssetStore) LoadSound(name, path string) (Sound, error) {
	snd, err := s.audio.LoadSound(path)
	if err != nil {
		return nil, eris.Wrapf(err, "load sound %q", name)
	}
	s.mu.Lock()
	old, ok := s.sounds[name]
	s.sounds[name] = snd
	s.mu.Unlock()
	if ok {
		s.audio.UnloadSound(old)
	}
	return snd, nil
}

// Sound returns the clip stored under name.
func (s *AssetStore) Sound(name string) (Sound, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	snd, ok := s.sounds[name]
	if !ok {
		return nil, eris.Wrapf(ErrAssetNotFound, "sound %q", name)
	}
	return snd, nil
}

// UnloadSound releases the clip stored under name.
func (s *AssetStore) UnloadSound(name string) error {
	s.mu.Lock()
	snd, ok := s.sounds[name]
	delete(s.sounds, name)
	s.mu.Unlock()
	if !ok {
		return eris.Wrapf(ErrAssetNotFound, "sound %q", name)
	}
	s.audio.UnloadSound(snd)
	return nil
}

// Names returns the sorted texture and sound names.
func (s *AssetStore) Names() (textures, sounds []string) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for name := range s.textures {
		textures = append(textures, name)
	}
	for name := range s.sounds {
		sounds = append(sounds, name)
	}
	sort.Strings(textures)
	sort.Strings(sounds)
	return textures, sounds
}

// LoadManifest reads a YAML manifest and loads every asset it lists. Loading stops at the
// first failure; assets loaded before it stay in the store.
func (s *AssetStore) LoadManifest(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return eris.Wrapf(err, "read manifest %s", path)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return eris.Wrapf(err, "parse manifest %s", path)
	}

	dir := filepath.Dir(path)
	for _, name := range sortedKeys(m.Textures) {
		if _, err := s.LoadTexture(name, resolve(dir, m.Textures[name])); err != nil {
			return err
		}
	}
	for _, name := range sortedKeys(m.Sounds) {
		if _, err := s.LoadSound(name, resolve(dir, m.Sounds[name])); err != nil {
			return err
		}
	}
	return nil
}

// Unload releases every asset.
func (s *AssetStore) Unload() {
	s.mu.Lock()
	textures, sounds := s.textures, s.sounds
	s.textures = make(map[string]Texture)
	s.sounds = make(map[string]Sound)
	s.mu.Unlock()

	for _, tex := range textures {
		s.renderer.UnloadTexture(tex)
	}
	for _, snd := range sounds {
		s.audio.UnloadSound(snd)
	}
}

func resolve(dir, path string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(dir, path)
}

func sortedKeys(m map[string]string) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
